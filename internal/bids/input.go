package bids

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

var (
	// ErrMissingDescription is returned when the payload has no usable
	// project description.
	ErrMissingDescription = errors.New("missing required field: project.description")
	// ErrMissingBids is returned when the payload has no bids to evaluate.
	ErrMissingBids = errors.New("missing or empty 'bids' field: expected a non-empty list")
)

// Payload is the evaluation input: a project description and the raw bid
// records submitted against it. Bid entries stay untyped here since bids
// are open records; DecodeBid extracts the fields the pipeline needs.
type Payload struct {
	Project Project `json:"project"`
	Bids    []any   `json:"bids"`
}

// Project carries the free-text description of the work being bid on.
type Project struct {
	Description string `json:"description"`
}

// ParsePayload decodes and validates an evaluation payload.
func ParsePayload(data []byte) (*Payload, error) {
	var payload Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse evaluation payload: %w", err)
	}

	if err := payload.Validate(); err != nil {
		return nil, err
	}

	return &payload, nil
}

// Validate checks the fatal preconditions before any external call is made.
func (p *Payload) Validate() error {
	if p == nil || strings.TrimSpace(p.Project.Description) == "" {
		return ErrMissingDescription
	}
	if len(p.Bids) == 0 {
		return ErrMissingBids
	}
	return nil
}

// ContractorNames returns the distinct non-empty contractor names across
// all well-formed bid entries, in first-seen order.
func (p *Payload) ContractorNames() []string {
	seen := make(map[string]struct{})
	names := make([]string, 0, len(p.Bids))
	for _, entry := range p.Bids {
		record, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		name, _ := record["contractor_name"].(string)
		if strings.TrimSpace(name) == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// DecodeBid maps an open bid record onto the typed Bid view, keeping the
// original record attached for downstream prompts.
func DecodeBid(record map[string]any) (*Bid, error) {
	var bid Bid
	cfg := &mapstructure.DecoderConfig{
		Result:           &bid,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(record); err != nil {
		return nil, fmt.Errorf("decode bid record: %w", err)
	}

	bid.Raw = record
	return &bid, nil
}
