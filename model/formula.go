package model

import (
	"strings"

	"github.com/pkg/errors"
)

// Formula names the roles a model formula assigns to table columns. The
// textual syntax is four pipe-delimited parts:
//
//	response ~ time | fixed | subject | outcome
//
// The fixed part is one or more +-separated terms. A lone "1" means
// intercept-only; a "0" or "-1" term drops the intercept. Terms must be
// plain column names - interactions and transforms are not supported.
type Formula struct {
	Response  string   // response column name
	Time      string   // observation time column name
	Fixed     []string // fixed-effect term column names (may be empty)
	Intercept bool     // include an intercept column in the design matrix
	Subject   string   // subject identifier column name
	Outcome   string   // outcome identifier column name
}

// ParseFormula parses the four-part formula text into a Formula. Any
// structural problem fails with ErrMalformedFormula naming the bad part.
func ParseFormula(text string) (*Formula, error) {
	parts := strings.Split(text, "|")
	if len(parts) != 4 {
		return nil, errors.Wrapf(ErrMalformedFormula, "expected 4 parts, found %d in %q", len(parts), text)
	}

	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	// First part is "response ~ time"
	rt := strings.Split(parts[0], "~")
	if len(rt) != 2 {
		return nil, errors.Wrapf(ErrMalformedFormula, "expected 'response ~ time', found %q", parts[0])
	}

	f := &Formula{
		Response:  strings.TrimSpace(rt[0]),
		Time:      strings.TrimSpace(rt[1]),
		Intercept: true,
		Subject:   parts[2],
		Outcome:   parts[3],
	}

	if len(f.Response) < 1 || len(f.Time) < 1 {
		return nil, errors.Wrapf(ErrMalformedFormula, "empty response or time in %q", parts[0])
	}
	if len(f.Subject) < 1 {
		return nil, errors.Wrap(ErrMalformedFormula, "empty subject part")
	}
	if len(f.Outcome) < 1 {
		return nil, errors.Wrap(ErrMalformedFormula, "empty outcome part")
	}

	if len(parts[1]) < 1 {
		return nil, errors.Wrap(ErrMalformedFormula, "empty fixed-effects part (use 1 for intercept-only)")
	}

	for _, term := range strings.Split(parts[1], "+") {
		term = strings.TrimSpace(term)
		switch term {
		case "":
			return nil, errors.Wrapf(ErrMalformedFormula, "empty term in fixed-effects part %q", parts[1])
		case "1":
			// Explicit intercept - already the default
		case "0", "-1":
			f.Intercept = false
		default:
			f.Fixed = append(f.Fixed, term)
		}
	}

	if !f.Intercept && len(f.Fixed) < 1 {
		return nil, errors.Wrapf(ErrMalformedFormula, "fixed-effects part %q leaves no terms at all", parts[1])
	}

	return f, nil
}
