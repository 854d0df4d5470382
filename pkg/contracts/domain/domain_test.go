package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMeasurementValid(t *testing.T) {
	m := Measurement{PM25: 12.5}
	assert.True(t, m.Valid())

	m.PM25 = math.NaN()
	assert.False(t, m.Valid())
}

func TestWideTableClone(t *testing.T) {
	in := &WideTable{
		Timestamps: []time.Time{time.Date(2015, 1, 1, 1, 0, 0, 0, time.UTC)},
		Columns:    []StationColumn{{City: "Wrocław", Code: "DsWrocAlWisn"}},
		Values:     [][]string{{"78.0"}},
	}

	out := in.Clone()
	out.Timestamps[0] = out.Timestamps[0].Add(time.Hour)
	out.Columns[0].Code = "changed"
	out.Values[0][0] = "changed"

	assert.Equal(t, time.Date(2015, 1, 1, 1, 0, 0, 0, time.UTC), in.Timestamps[0])
	assert.Equal(t, "DsWrocAlWisn", in.Columns[0].Code)
	assert.Equal(t, "78.0", in.Values[0][0])
}

func TestVoivodeshipCode(t *testing.T) {
	assert.Equal(t, "Ds", VoivodeshipCode("DsWrocAlWisn"))
	assert.Equal(t, "Kp", VoivodeshipCode("KpBydPlPozna"))
	assert.Equal(t, "X", VoivodeshipCode("X"))

	assert.Equal(t, "dolnośląskie", VoivodeshipNames["Ds"])
	assert.Equal(t, "zachodniopomorskie", VoivodeshipNames["Zp"])
	assert.Len(t, VoivodeshipNames, 16)
}

func TestSplitOldCodes(t *testing.T) {
	assert.Nil(t, SplitOldCodes(""))
	assert.Nil(t, SplitOldCodes("   "))
	assert.Equal(t, []string{"DsBogatMob"}, SplitOldCodes("DsBogatMob"))
	assert.Equal(t,
		[]string{"ZpSzczecin002", "ZpSzczPils02"},
		SplitOldCodes("ZpSzczecin002, ZpSzczPils02"))
}

func TestMetaTableLookups(t *testing.T) {
	meta := &MetaTable{Stations: []StationMeta{
		{Code: "DsWrocAlWisn", City: "Wrocław", OldCodes: []string{"DsWrocStary"}},
	}}

	assert.Equal(t, "Wrocław", meta.CityOf("DsWrocAlWisn"))
	assert.Equal(t, "", meta.CityOf("missing"))
	assert.Equal(t, "DsWrocAlWisn", meta.CurrentCode("DsWrocStary"))
	assert.Equal(t, "missing", meta.CurrentCode("missing"))
}
