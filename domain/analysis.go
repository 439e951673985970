package domain

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

var (
	MessageSuccessRequestAnalysis = "analysis completed"
	MessageSuccessGetAnalysis     = "analysis state retrieved successfully"
	MessageSuccessResetAnalysis   = "analysis state reset"
	MessageFailedRequestAnalysis  = "failed to analyze product"

	ErrMalformedEstimate = errors.New("classification response has no numeric estimate")
)

// AnalysisStatus tags the variant held by AnalysisState.
type AnalysisStatus int

const (
	AnalysisIdle AnalysisStatus = iota
	AnalysisInFlight
	AnalysisCompleted
)

func (s AnalysisStatus) String() string {
	switch s {
	case AnalysisInFlight:
		return "in_flight"
	case AnalysisCompleted:
		return "completed"
	default:
		return "idle"
	}
}

func (s AnalysisStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// AnalysisState is the result of the most recent classification request.
// Kcal and Raw are set only when Status is AnalysisCompleted and Err is nil.
type AnalysisState struct {
	Status AnalysisStatus
	Kcal   string
	Raw    string
	Err    error
}

func (a AnalysisState) Succeeded() bool {
	return a.Status == AnalysisCompleted && a.Err == nil
}

type AnalysisResponse struct {
	Status string `json:"status"`
	Kcal   string `json:"kcal,omitempty"`
	Raw    string `json:"raw,omitempty"`
	Error  string `json:"error,omitempty"`
}

func (a AnalysisState) Response() AnalysisResponse {
	res := AnalysisResponse{Status: a.Status.String(), Kcal: a.Kcal, Raw: a.Raw}
	if a.Err != nil {
		res.Error = a.Err.Error()
	}
	return res
}

type (
	ImageAnalysisRequest struct {
		ImageURL string `json:"image_url" validate:"required,url"`
	}

	NameAnalysisRequest struct {
		ProductName string `json:"product_name" validate:"required"`
	}
)

// estimatePattern matches a signed whole number, with or without
// thousands separators.
var estimatePattern = regexp.MustCompile(`-?\d{1,3}(?:,\d{3})+\b|-?\d+`)

// ParseEstimate pulls the first whole number out of a model reply such as
// "150", "1,200 kcal" or "Choco Pie 150". A negative number is malformed.
func ParseEstimate(text string) (string, error) {
	m := estimatePattern.FindString(text)
	if m == "" {
		return "", ErrMalformedEstimate
	}
	n, err := ParseKcal(strings.ReplaceAll(m, ",", ""))
	if err != nil {
		return "", ErrMalformedEstimate
	}
	return strconv.Itoa(n), nil
}
