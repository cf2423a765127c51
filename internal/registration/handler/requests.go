package handler

import "motoreg/internal/registration/models"

// SubmitRequest is the wire shape of one registration attempt. Values are
// passed through as typed raw input; normalization and validation happen in
// the pipeline, not here.
type SubmitRequest struct {
	FullName  string `json:"full_name"`
	BirthDate string `json:"birth_date"`
	Document  string `json:"document"`
	Phone     string `json:"phone"`
	Plate     string `json:"plate"`
	Sector    string `json:"sector"`
}

// Draft converts the request into the pipeline's draft type.
func (r SubmitRequest) Draft() models.Draft {
	return models.Draft{
		FullName:  r.FullName,
		BirthDate: r.BirthDate,
		Document:  r.Document,
		Phone:     r.Phone,
		Plate:     r.Plate,
		Sector:    r.Sector,
	}
}

// ConfigResponse tells the shell which rule variant is active so it can
// mirror the input caps and patterns client-side.
type ConfigResponse struct {
	Preset         string   `json:"preset"`
	PlateMaxLength int      `json:"plate_max_length"`
	PhoneRequired  bool     `json:"phone_required"`
	Sectors        []string `json:"sectors"`
	DefaultSector  string   `json:"default_sector"`
}
