package model

import (
	"gorm.io/datatypes"

	"lovemirror-backend/internal/scoring"
)

// Snapshot slices are stored as JSONB columns.
type (
	Responses               = datatypes.JSONSlice[scoring.Response]
	CategoryScores          = datatypes.JSONSlice[scoring.CategoryScore]
	CategoryGaps            = datatypes.JSONSlice[scoring.CategoryGap]
	CategoryCompatibilities = datatypes.JSONSlice[scoring.CategoryCompatibility]
)
