package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigCheck(t *testing.T) {
	assert := assert.New(t)

	assert.NoError(DefaultConfig().Check())
	assert.NoError(Config{LatentTime: false, RandomEffects: REMultivariate}.Check())

	cases := []string{"", "UNIVARIATE", "independent", "mv", "multivariate "}
	for _, re := range cases {
		err := Config{LatentTime: true, RandomEffects: re}.Check()
		assert.ErrorIs(err, ErrIncompatibleConfiguration, re)
	}
}

func TestBuildStanData(t *testing.T) {
	assert := assert.New(t)

	f, err := ParseFormula("y ~ t | 1 | id | test")
	assert.NoError(err)

	rs, err := Reshape(demoTable(t), f, ReshapeOptions{})
	assert.NoError(err)

	d, err := BuildStanData(rs, DefaultConfig())
	assert.NoError(err)

	assert.Equal(6, d.N)
	assert.Equal(3, d.S)
	assert.Equal(2, d.K)
	assert.Equal(1, d.P)
	assert.Equal([]int{3, 3}, d.RowsPerOutcome)
	assert.Len(d.Y, d.N)
	r, c := d.X.Dims()
	assert.Equal(d.N, r)
	assert.Equal(d.P, c)

	// The payload must not alias the reshaped arrays
	rs.Y[0] = -999
	rs.Subject[0] = 99
	assert.NotEqual(-999.0, d.Y[0])
	assert.NotEqual(99, d.Subject[0])
}

func TestBuildStanDataBadConfig(t *testing.T) {
	assert := assert.New(t)

	f, err := ParseFormula("y ~ t | 1 | id | test")
	assert.NoError(err)
	rs, err := Reshape(demoTable(t), f, ReshapeOptions{})
	assert.NoError(err)

	d, err := BuildStanData(rs, Config{LatentTime: true, RandomEffects: "banana"})
	assert.Nil(d)
	assert.ErrorIs(err, ErrIncompatibleConfiguration)
}
