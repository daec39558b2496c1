package dto

type UploadPhotoForm struct {
	EntityType string `form:"entity_type" binding:"required"`
	EntityID   uint   `form:"entity_id" binding:"required,gt=0"`
}

type EntityPhotosURI struct {
	EntityType string `uri:"id" binding:"required"`
	EntityID   uint   `uri:"entityId" binding:"required,gt=0"`
}

// CleanupReport summarizes one orphan cleanup run.
type CleanupReport struct {
	OrphanRows  int `json:"orphan_rows"`
	StrayFiles  int `json:"stray_files"`
	FailedFiles int `json:"failed_files"`
}
