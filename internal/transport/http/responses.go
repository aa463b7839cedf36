package http

import (
	"math"

	"aqseries/internal/airquality"
	"aqseries/internal/exporter"
	"aqseries/internal/files"
	"aqseries/internal/services"
	api "aqseries/pkg/contracts/api/v1"
)

// nullable maps NaN to a JSON null
func nullable(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func newSeriesResponse(result *services.SeriesResult) api.SeriesResponse {
	s := result.Series

	data := make([]api.PointResponse, len(s.Points))
	for i, p := range s.Points {
		data[i] = api.PointResponse{
			Date:  p.Date.Format(exporter.DateLayout),
			Value: nullable(p.Value),
		}
	}

	names := make([]string, len(result.Files))
	for i, f := range result.Files {
		names[i] = f.Name
	}

	resp := api.SeriesResponse{
		Series:    s.Name,
		Station:   result.Station.String(),
		Pollutant: result.Pollutant,
		Files:     names,
		Count:     s.Len(),
		Valid:     s.Valid(),
		Missing:   s.Missing(),
		Mean:      nullable(s.Mean()),
		Min:       nullable(s.Min()),
		Max:       nullable(s.Max()),
		Data:      data,
	}
	if p, ok := airquality.LookupPollutant(result.Pollutant); ok {
		resp.Formula = p.Formula
		resp.Unit = p.Unit
	}
	return resp
}

func newFilesResponse(found []files.FileInfo) api.FilesResponse {
	list := make([]api.FileResponse, len(found))
	for i, f := range found {
		list[i] = api.FileResponse{
			Name:    f.Name,
			Size:    f.Size,
			ModTime: f.ModTime,
			Year:    f.Year,
		}
	}
	return api.FilesResponse{Files: list, Count: len(list)}
}

func newPollutantsResponse() api.PollutantsResponse {
	catalogue := airquality.Pollutants()
	list := make([]api.PollutantResponse, len(catalogue))
	for i, p := range catalogue {
		list[i] = api.PollutantResponse{
			Code:    p.Code,
			Formula: p.Formula,
			Name:    p.Name,
			Unit:    p.Unit,
		}
	}
	return api.PollutantsResponse{Pollutants: list}
}
