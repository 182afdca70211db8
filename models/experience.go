package models

import (
	"math"
	"strconv"
	"strings"

	"gorm.io/datatypes"
)

// PresentYear marks an experience that has not ended
const PresentYear = "Present"

// Experience is one entry of the work history
type Experience struct {
	Base
	Designation    string                      `json:"designation" db:"designation" gorm:"type:text;not null"`
	Company        string                      `json:"company" db:"company" gorm:"type:text;not null"`
	Desc           string                      `json:"desc" db:"description" gorm:"column:description;type:text;not null"`
	StartYear      string                      `json:"startYear" db:"start_year" gorm:"type:text;not null"`
	EndYear        string                      `json:"endYear" db:"end_year" gorm:"type:text;not null"`
	KeyAchievement datatypes.JSONSlice[string] `json:"keyAchievement" db:"key_achievement"`
	Learn          datatypes.JSONSlice[string] `json:"learn" db:"learn"`
}

// YearSortKey turns a year string into an integer; "Present" sorts after every year
func YearSortKey(year string) int {
	year = strings.TrimSpace(year)
	if year == "" || strings.EqualFold(year, PresentYear) {
		return math.MaxInt
	}
	n, err := strconv.Atoi(year)
	if err != nil {
		return 0
	}
	return n
}
