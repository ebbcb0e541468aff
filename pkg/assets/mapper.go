package assets

// ToEntity builds an unsaved Asset from a request. ID and audit timestamps
// are left zero for the store to fill.
func ToEntity(req AssetRequest) Asset {
	a := Asset{
		Name:         req.Name,
		SerialNumber: req.SerialNumber,
		Status:       StatusAvailable,
	}
	if req.AcquisitionDate != nil {
		a.AcquisitionDate = *req.AcquisitionDate
	}
	if req.Status != nil {
		a.Status = *req.Status
	}
	return a
}

func ToResponse(a Asset) AssetResponse {
	return AssetResponse{
		ID:              a.ID,
		Name:            a.Name,
		SerialNumber:    a.SerialNumber,
		AcquisitionDate: a.AcquisitionDate,
		Status:          a.Status,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func ToResponses(items []Asset) []AssetResponse {
	out := make([]AssetResponse, 0, len(items))
	for _, a := range items {
		out = append(out, ToResponse(a))
	}
	return out
}
