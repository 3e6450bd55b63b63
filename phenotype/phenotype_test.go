package phenotype

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const attributes = "SAMPID\tSMATSSCR\tSMTS\tSMTSD\n" +
	"GTEX-1117F-0226-SM-5GZZ7\t0\tAdipose Tissue\tAdipose - Subcutaneous\n" +
	"GTEX-1117F-0426-SM-5EGHI\t0\tMuscle\tMuscle - Skeletal\n" +
	"GTEX-111CU-1826-SM-5GZYN\t1\tLung\tLung\n"

func TestRead(t *testing.T) {
	m, err := Read(strings.NewReader(attributes))
	require.NoError(t, err)

	assert.Len(t, m, 3)
	assert.Equal(t, "Adipose - Subcutaneous", m["GTEX-1117F-0226-SM-5GZZ7"])
	assert.Equal(t, "Lung", m["GTEX-111CU-1826-SM-5GZYN"])
	assert.Equal(t, 3, m.Tissues())
}

func TestLabelsAreDistinctAndSorted(t *testing.T) {
	m := SampleTissueMap{"S1": "Lung", "S2": "Brain - Cortex", "S3": "Lung"}
	assert.Equal(t, []string{"Brain - Cortex", "Lung"}, m.Labels())
	assert.Equal(t, 2, m.Tissues())
}

func TestTissueLookup(t *testing.T) {
	m, err := Read(strings.NewReader(attributes))
	require.NoError(t, err)

	hit := m.Tissue("GTEX-1117F-0426-SM-5EGHI")
	assert.True(t, hit.Valid)
	assert.Equal(t, "Muscle - Skeletal", hit.String)

	miss := m.Tissue("GTEX-NOT-A-SAMPLE")
	assert.False(t, miss.Valid)
}

func TestReadLastDuplicateWins(t *testing.T) {
	in := "SAMPID\tSMTSD\n" +
		"S1\tLung\n" +
		"S1\tLiver\n"

	m, err := Read(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, "Liver", m["S1"])
}

func TestReadBlankTissueIsUnmapped(t *testing.T) {
	in := "SAMPID\tSMTSD\n" +
		"S1\t\n" +
		"S2\tLung\n"

	m, err := Read(strings.NewReader(in))
	require.NoError(t, err)
	assert.False(t, m.Tissue("S1").Valid)
	assert.True(t, m.Tissue("S2").Valid)
}

func TestReadMissingColumn(t *testing.T) {
	in := "SAMPID\tSMTS\n" +
		"S1\tLung\n"

	_, err := Read(strings.NewReader(in))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingColumn))
	assert.Contains(t, err.Error(), TissueColumn)

	in = "SUBJID\tSMTSD\n" +
		"S1\tLung\n"

	_, err = Read(strings.NewReader(in))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingColumn))
	assert.Contains(t, err.Error(), SampleIDColumn)
}

func TestReadEmpty(t *testing.T) {
	_, err := Read(strings.NewReader(""))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "SampleAttributesDS.txt")
	require.NoError(t, os.WriteFile(path, []byte(attributes), 0644))

	m, err := Load(path, nil)
	require.NoError(t, err)
	assert.Len(t, m, 3)
}
