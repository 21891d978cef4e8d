package validation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// Request bounds, matching the public API
	MaxDrugsLimit   = 1000
	MaxSimilarLimit = 100
	MaxNetworkLimit = 200
)

func init() {
	validate = validator.New()
}

// NodePayload is a drug as it appears on the wire.
type NodePayload struct {
	ID                string   `json:"id" validate:"required"`
	Drug              string   `json:"drug"`
	CellLine          string   `json:"cell_line"`
	Mechanism         string   `json:"mechanism,omitempty"`
	SamplesAggregated int      `json:"samples_aggregated" validate:"gte=0"`
	PubChemURL        string   `json:"pubchem_url,omitempty"`
	X                 *float64 `json:"x,omitempty"`
	Y                 *float64 `json:"y,omitempty"`
}

// LinkPayload is one similarity edge on the wire.
type LinkPayload struct {
	Source     string  `json:"source" validate:"required"`
	Target     string  `json:"target" validate:"required"`
	Similarity float64 `json:"similarity" validate:"gte=0,lte=1"`
}

// NetworkPayload is the /api/network response. Servers name the edge list
// either "links" or "edges".
type NetworkPayload struct {
	Nodes []NodePayload `json:"nodes" validate:"dive"`
	Links []LinkPayload `json:"links,omitempty" validate:"dive"`
	Edges []LinkPayload `json:"edges,omitempty" validate:"dive"`
}

// AllLinks returns whichever edge list the server sent.
func (p *NetworkPayload) AllLinks() []LinkPayload {
	if len(p.Links) > 0 {
		return p.Links
	}
	return p.Edges
}

// SimilarityPayload is one /api/similar result.
type SimilarityPayload struct {
	Drug       NodePayload `json:"drug"`
	Similarity float64     `json:"similarity" validate:"gte=0,lte=1"`
}

// ValidateNode validates a single drug payload.
func ValidateNode(p *NodePayload) error {
	if p == nil {
		return errors.New("node payload cannot be nil")
	}
	return formatValidationError(validate.Struct(p))
}

// ValidateNetwork validates a network payload and checks that node ids are
// unique.
func ValidateNetwork(p *NetworkPayload) error {
	if p == nil {
		return errors.New("network payload cannot be nil")
	}
	if err := validate.Struct(p); err != nil {
		return formatValidationError(err)
	}

	seen := make(map[string]struct{}, len(p.Nodes))
	for _, n := range p.Nodes {
		if _, dup := seen[n.ID]; dup {
			return fmt.Errorf("Nodes: duplicate id %q", n.ID)
		}
		seen[n.ID] = struct{}{}
	}
	return nil
}

// ValidateSimilarities validates a /api/similar response.
func ValidateSimilarities(ps []SimilarityPayload) error {
	for i := range ps {
		if err := validate.Struct(&ps[i]); err != nil {
			return fmt.Errorf("similar[%d]: %w", i, formatValidationError(err))
		}
	}
	return nil
}

// ValidateThreshold checks a similarity threshold query parameter.
func ValidateThreshold(t float64) error {
	if !(t >= 0 && t <= 1) {
		return fmt.Errorf("threshold must be within [0, 1], got %g", t)
	}
	return nil
}

// ValidateLimit checks a result limit query parameter.
func ValidateLimit(limit, max int) error {
	if limit < 1 {
		return fmt.Errorf("limit must be at least 1, got %d", limit)
	}
	if limit > max {
		return fmt.Errorf("limit must not exceed %d, got %d", max, limit)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Namespace()
		param := e.Param()

		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "gte", "min":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "lte", "max":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}

	return err
}
