package sampler

import (
	"bytes"
	"encoding/json"
	"os/exec"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/ltjmm/ltjmm/model"
)

// enginePayload is the wire form of the sampler payload. Field names and
// shapes must match what the precompiled variants were built against.
type enginePayload struct {
	N int `json:"N"`
	S int `json:"S"`
	K int `json:"K"`
	P int `json:"P"`

	Subject []int     `json:"subj"`
	Outcome []int     `json:"outcome"`
	Time    []float64 `json:"time"`
	Y       []float64 `json:"y"`

	X [][]float64 `json:"X"`

	RowsPerOutcome []int `json:"n_obs"`
}

func newEnginePayload(data *model.StanData) *enginePayload {
	x := make([][]float64, data.N)
	for i := 0; i < data.N; i++ {
		x[i] = make([]float64, data.P)
		for j := 0; j < data.P; j++ {
			x[i][j] = data.X.At(i, j)
		}
	}

	return &enginePayload{
		N:              data.N,
		S:              data.S,
		K:              data.K,
		P:              data.P,
		Subject:        data.Subject,
		Outcome:        data.Outcome,
		Time:           data.Time,
		Y:              data.Y,
		X:              x,
		RowsPerOutcome: data.RowsPerOutcome,
	}
}

// ProcessEngine runs the external sampling engine as a child process. The
// payload goes to stdin as JSON; the engine writes one log-posterior value
// per post-warmup draw on stdout and diagnostics on stderr. The call
// blocks until the process exits - supervise the process from outside if
// cancellation is needed.
type ProcessEngine struct {
	Path string // engine binary
}

// Sample implements the Engine interface.
func (e *ProcessEngine) Sample(v Variant, data *model.StanData, opts Options) (*Result, error) {
	if len(e.Path) < 1 {
		return nil, errors.Errorf("no engine binary configured")
	}

	body, err := json.Marshal(newEnginePayload(data))
	if err != nil {
		return nil, errors.Wrap(err, "could not encode payload")
	}

	cmd := exec.Command(e.Path,
		"--model", v.String(),
		"--chains", strconv.Itoa(opts.Chains),
		"--warmup", strconv.Itoa(opts.Warmup),
		"--iter", strconv.Itoa(opts.Iter),
		"--thin", strconv.Itoa(opts.Thin),
		"--cores", strconv.Itoa(opts.Cores),
		"--seed", strconv.FormatInt(opts.Seed, 10),
	)
	cmd.Stdin = bytes.NewReader(body)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, errors.Errorf("engine %s failed: %v: %s", e.Path, err, strings.TrimSpace(stderr.String()))
	}

	res := &Result{Output: stderr.String()}
	for _, ln := range strings.Split(stdout.String(), "\n") {
		ln = strings.TrimSpace(ln)
		if len(ln) < 1 {
			continue
		}
		lp, err := strconv.ParseFloat(ln, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "engine wrote a non-numeric trace line %q", ln)
		}
		res.LogPosterior = append(res.LogPosterior, lp)
	}

	return res, nil
}
