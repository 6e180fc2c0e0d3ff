package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/truthdriving/driving_school/models"
)

func TestTermsFromMetadata(t *testing.T) {
	terms, ok := termsFromMetadata(map[string]string{
		"package_id":        "3",
		"package_name":      "Package A",
		"number_of_lessons": "4",
		"validity_days":     "365",
	})
	assert.True(t, ok)
	assert.Equal(t, uint(3), terms.PackageID)
	assert.Equal(t, "Package A", terms.Name)
	assert.Equal(t, 4, terms.Lessons)
	assert.Equal(t, 365, terms.ValidityDays)
}

func TestTermsFromMetadataWithoutPackageID(t *testing.T) {
	terms, ok := termsFromMetadata(map[string]string{
		"package_name":      "Road Test",
		"number_of_lessons": "1",
		"validity_days":     "365",
	})
	assert.True(t, ok)
	assert.Equal(t, uint(0), terms.PackageID)
	assert.Equal(t, "Road Test", terms.Name)
}

func TestTermsFromMetadataRejectsIncompleteSnapshot(t *testing.T) {
	tests := []struct {
		description string
		metadata    map[string]string
	}{
		{"no snapshot at all", map[string]string{"package_name": "Package A"}},
		{"missing validity", map[string]string{"number_of_lessons": "4"}},
		{"zero lessons", map[string]string{"number_of_lessons": "0", "validity_days": "365"}},
		{"negative validity", map[string]string{"number_of_lessons": "4", "validity_days": "-1"}},
		{"non numeric lessons", map[string]string{"number_of_lessons": "four", "validity_days": "365"}},
	}

	for _, test := range tests {
		_, ok := termsFromMetadata(test.metadata)
		assert.False(t, ok, test.description)
	}
}

func TestFallbackPackageTermsCoverCatalog(t *testing.T) {
	for _, name := range []string{
		"1 Hour Driving Lesson",
		"1.5 Hours Driving Lessons",
		"Package A",
		"Package B",
		"Package C",
		"Road Test",
	} {
		terms, ok := fallbackPackageTerms[name]
		assert.True(t, ok, name)
		assert.Greater(t, terms.Lessons, 0, name)
		assert.Greater(t, terms.ValidityDays, 0, name)
	}

	assert.Equal(t, 4, fallbackPackageTerms["Package A"].Lessons)
	assert.Equal(t, 6, fallbackPackageTerms["Package B"].Lessons)
	assert.Equal(t, 10, fallbackPackageTerms["Package C"].Lessons)
}

func TestResultFromEntry(t *testing.T) {
	intent := "pi_test_789"
	entry := models.UserPackage{
		ID:               uuid.New(),
		PackageName:      "Package B",
		TotalLessons:     6,
		PurchasePrice:    610,
		PaymentIntentID:  &intent,
		LessonsRemaining: 6,
	}

	result := resultFromEntry(&entry)
	assert.Equal(t, "Package B", result.PackageName)
	assert.Equal(t, 6, result.Lessons)
	assert.Equal(t, 610.0, result.Amount)
	assert.Equal(t, entry.ID, result.UserPackageID)
	assert.Equal(t, "pi_test_789", result.TransactionID)
}

func TestResultFromEntryWithoutIntent(t *testing.T) {
	entry := models.UserPackage{PackageName: "Road Test", TotalLessons: 1}
	result := resultFromEntry(&entry)
	assert.Equal(t, "", result.TransactionID)
}
