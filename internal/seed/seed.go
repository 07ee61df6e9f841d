// Package seed holds the embedded starter catalog inserted when the
// courses table is empty at boot.
package seed

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/coursedeck/coursedeck-api/internal/models"
)

//go:embed initial_courses.json
var initialCourses []byte

// Courses decodes the embedded starter catalog.
func Courses() ([]models.Course, error) {
	var courses []models.Course
	if err := json.Unmarshal(initialCourses, &courses); err != nil {
		return nil, fmt.Errorf("decode initial courses: %w", err)
	}
	return courses, nil
}
