package cmd

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/ltjmm/ltjmm/model"
	"github.com/ltjmm/ltjmm/sim"
)

var simSubjects int
var simOutcomes int
var simVisits int
var simParamsFile string
var simSeed int64
var simOutFile string

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Generate a synthetic dataset from the generative model",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := sim.LoadParams(simParamsFile)
		if err != nil {
			return err
		}

		skel := balancedSkeleton(simSubjects, simOutcomes, simVisits)
		ds, err := sim.Simulate(skel, p, simSeed)
		if err != nil {
			return err
		}

		logrus.WithFields(logrus.Fields{
			"rows":     skel.N,
			"subjects": skel.S,
			"outcomes": skel.K,
			"seed":     simSeed,
		}).Info("simulated dataset")

		return writeSimCSV(simOutFile, skel, ds)
	},
}

func init() {
	simulateCmd.Flags().IntVar(&simSubjects, "subjects", 100, "Subject count")
	simulateCmd.Flags().IntVar(&simOutcomes, "outcomes", 4, "Outcome count")
	simulateCmd.Flags().IntVar(&simVisits, "visits", 4, "Visits per subject")
	simulateCmd.Flags().StringVarP(&simParamsFile, "params", "p", "", "YAML file of simulation parameters")
	simulateCmd.Flags().Int64VarP(&simSeed, "seed", "r", 1, "Random seed to use")
	simulateCmd.Flags().StringVarP(&simOutFile, "out", "o", "sim.csv", "Output CSV file")
	simulateCmd.MarkFlagRequired("params")
}

// balancedSkeleton builds the row structure for a complete design: every
// subject measured on every outcome at visits 0..visits-1, intercept-only
// fixed effects.
func balancedSkeleton(subjects, outcomes, visits int) *model.StanData {
	n := subjects * outcomes * visits

	skel := &model.StanData{
		N:              n,
		S:              subjects,
		K:              outcomes,
		P:              1,
		Subject:        make([]int, n),
		Outcome:        make([]int, n),
		Time:           make([]float64, n),
		Y:              make([]float64, n),
		RowsPerOutcome: make([]int, outcomes),
	}

	ones := make([]float64, n)
	i := 0
	for s := 1; s <= subjects; s++ {
		for k := 1; k <= outcomes; k++ {
			for v := 0; v < visits; v++ {
				skel.Subject[i] = s
				skel.Outcome[i] = k
				skel.Time[i] = float64(v)
				ones[i] = 1.0
				i++
			}
			skel.RowsPerOutcome[k-1] += visits
		}
	}
	skel.X = mat.NewDense(n, 1, ones)

	return skel
}

func writeSimCSV(filename string, skel *model.StanData, ds *sim.Dataset) error {
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "could not create %s", filename)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "outcome", "time", "y"}); err != nil {
		return errors.Wrap(err, "could not write CSV header")
	}

	for i := 0; i < skel.N; i++ {
		rec := []string{
			strconv.Itoa(skel.Subject[i]),
			"Y" + strconv.Itoa(skel.Outcome[i]),
			strconv.FormatFloat(skel.Time[i], 'g', -1, 64),
			strconv.FormatFloat(ds.Y[i], 'g', -1, 64),
		}
		if err := w.Write(rec); err != nil {
			return errors.Wrapf(err, "could not write CSV row %d", i)
		}
	}

	w.Flush()
	return errors.Wrapf(w.Error(), "could not finish %s", filename)
}
