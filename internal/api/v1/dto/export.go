package dto

// ExportRequest represents parameters for render audit exports
type ExportRequest struct {
	Format  string `form:"format" json:"format" binding:"omitempty,oneof=csv json xlsx"`
	MediaID string `form:"media_id" json:"media_id"`
}
