package assets

import "errors"

var (
	ErrAssetNotFound         = errors.New("asset not found")
	ErrDeleteAssetNotFound   = errors.New("asset not found for deletion")
	ErrDuplicateSerialNumber = errors.New("serial number already exists")
)
