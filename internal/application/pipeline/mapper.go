package pipeline

import (
	"github.com/jhoicas/granite-api/internal/application/dto"
	"github.com/jhoicas/granite-api/internal/domain/entity"
)

func toJobResponse(j *entity.ProductionJob) *dto.JobResponse {
	if j == nil {
		return nil
	}
	out := &dto.JobResponse{
		ID:           j.ID,
		BlockID:      j.BlockID,
		Stage:        string(j.Stage),
		Status:       string(j.Status),
		StartTime:    j.StartTime,
		EndTime:      j.EndTime,
		Measurements: j.Measurements,
		MachineID:    j.MachineID,
		TrolleyID:    j.TrolleyID,
		Notes:        j.Notes,
		Comment:      j.Comment,
		Photos:       j.Photos,
		Warnings:     measurementWarnings(j.Measurements),
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    j.UpdatedAt,
	}
	if out.Photos == nil {
		out.Photos = []string{}
	}
	if j.Stoppage != nil {
		out.Stoppage = &dto.StoppageRequest{
			Reason:           j.Stoppage.Reason,
			Start:            j.Stoppage.Start,
			End:              j.Stoppage.End,
			MaintenanceNotes: j.Stoppage.MaintenanceNotes,
		}
	}
	return out
}

func toStoppage(in *dto.StoppageRequest) *entity.Stoppage {
	if in == nil {
		return nil
	}
	reason := in.Reason
	if reason == "" {
		reason = entity.StoppageNone
	}
	return &entity.Stoppage{
		Reason:           reason,
		Start:            in.Start,
		End:              in.End,
		MaintenanceNotes: in.MaintenanceNotes,
	}
}
