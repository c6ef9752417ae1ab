package status

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/leemrnda21/hau-kiosk-registar/internal/app/models"
)

// referencePrefixes is the fixed document-type prefix table used when
// generating reference numbers.
var referencePrefixes = map[models.DocumentType]string{
	models.DocTranscriptOfficial:      "TOR",
	models.DocTranscriptUnofficial:    "TOR",
	models.DocCertificateOfGrades:     "COG",
	models.DocCertificateOfEnrollment: "COE",
	models.DocGoodMoralCertificate:    "GMC",
	models.DocDiploma:                 "DIP",
	models.DocHonorableDismissal:      "HD",
	models.DocUnitsEarned:             "CUE",
	models.DocTransferCredential:      "CTC",
	models.DocGraduationCertificate:   "COGRA",
}

const fallbackPrefix = "DOC"

// ReferencePrefix returns the reference number prefix for a document type,
// falling back to "DOC" for types missing from the table.
func ReferencePrefix(t models.DocumentType) string {
	if prefix, ok := referencePrefixes[t]; ok {
		return prefix
	}
	return fallbackPrefix
}

// NewReferenceNo builds a `{PREFIX}-{year}-{4 digits}` reference number.
// Uniqueness is probabilistic: no collision check is performed, so two
// requests of the same type in the same year collide with odds of 1 in 9000.
func NewReferenceNo(t models.DocumentType, now time.Time) string {
	return fmt.Sprintf("%s-%d-%04d", ReferencePrefix(t), now.Year(), 1000+rand.Intn(9000))
}

// NewReceiptNo builds an official receipt number. Same format and the same
// probabilistic uniqueness as reference numbers, under the "OR" prefix.
func NewReceiptNo(now time.Time) string {
	return fmt.Sprintf("OR-%d-%04d", now.Year(), 1000+rand.Intn(9000))
}
