package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableColumns(t *testing.T) {
	assert := assert.New(t)

	tbl := NewTable()
	assert.NoError(tbl.AddNumeric("y", []float64{1.0, 2.0, math.NaN()}))
	assert.NoError(tbl.AddString("id", []string{"a", "b", ""}))

	// Length mismatch and duplicate names are construction bugs
	assert.Error(tbl.AddNumeric("t", []float64{1.0}))
	assert.Error(tbl.AddNumeric("y", []float64{1.0, 2.0, 3.0}))

	assert.Equal(3, tbl.Rows())

	c, err := tbl.Column("y")
	assert.NoError(err)
	assert.True(c.Numeric)
	assert.False(c.IsMissing(0))
	assert.True(c.IsMissing(2))
	assert.Equal("2", c.Label(1))

	c, err = tbl.Column("id")
	assert.NoError(err)
	assert.False(c.Numeric)
	assert.True(c.IsMissing(2))
	assert.Equal("b", c.Label(1))

	c, err = tbl.Column("nope")
	assert.Nil(c)
	assert.ErrorIs(err, ErrUnresolvedColumn)
}

func TestCSVReader(t *testing.T) {
	assert := assert.New(t)

	data := []byte("id,outcome,time,y\n" +
		"s1,adas,0,10.5\n" +
		"s1,adas,1.5,\n" +
		"s2,mmse,0,28\n")

	tbl, err := CSVReader{}.ReadTable(data)
	assert.NoError(err)
	assert.Equal(3, tbl.Rows())

	id, err := tbl.Column("id")
	assert.NoError(err)
	assert.False(id.Numeric)
	assert.Equal([]string{"s1", "s1", "s2"}, id.Strings)

	tm, err := tbl.Column("time")
	assert.NoError(err)
	assert.True(tm.Numeric)
	assert.Equal([]float64{0, 1.5, 0}, tm.Floats)

	// Empty cell in a numeric column is a missing value, not a label
	y, err := tbl.Column("y")
	assert.NoError(err)
	assert.True(y.Numeric)
	assert.True(y.IsMissing(1))
	assert.Equal(10.5, y.Floats[0])
}

// NA cells are missing values, not labels, in both column kinds
func TestCSVReaderNA(t *testing.T) {
	assert := assert.New(t)

	data := []byte("id,y\n" +
		"s1,10\n" +
		"NA,NA\n" +
		"s2,12\n")

	tbl, err := CSVReader{}.ReadTable(data)
	assert.NoError(err)

	y, err := tbl.Column("y")
	assert.NoError(err)
	assert.True(y.Numeric)
	assert.True(y.IsMissing(1))

	id, err := tbl.Column("id")
	assert.NoError(err)
	assert.False(id.Numeric)
	assert.True(id.IsMissing(1))
}

func TestCSVReaderBad(t *testing.T) {
	assert := assert.New(t)

	cases := [][]byte{
		[]byte(""),
		[]byte("id,y\n"),
		[]byte("id,y\na,1,EXTRA\n"),
	}

	for _, data := range cases {
		tbl, err := CSVReader{}.ReadTable(data)
		assert.Nil(tbl, string(data))
		assert.Error(err, string(data))
	}
}
