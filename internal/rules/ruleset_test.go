package rules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/ir"
)

func sampleReader() StaticReader {
	return StaticReader{
		"MATRIZ": {
			{"CODIGO", "ORIGEN DEL METRADO", "AUDITORIA", "DESCRIPCION 1"},
			{"C.01.02", "AUTOMATICO", "✓", "Muros"},
			{"C.03.04", "MANUAL", "✓", "Pisos"},
			{"C.05.10", "", "", "Losas"},
		},
		"MODELOS": {
			{"GRUPO", "MODELO"},
			{"TORRE A", "PRY-ARQ-01.rvt"},
			{"TORRE A", "PRY-EST-01"},
			{"TORRE B", "PRY-EST-02"},
		},
		"PALABRAS": {
			{"LISTA", "PALABRA"},
			{"WIP", "JPEREZ"},
			{"wip", "wip"},
			{"COPIA", "DUPLICADO"},
			{"OTRA", "IGNORADA"},
		},
	}
}

func TestLoadRuleSet(t *testing.T) {
	rs := Load(context.Background(), sampleReader(), DefaultSheets(), ir.DefaultProfile(), zap.NewNop())

	assert.Equal(t, []ir.AssemblyCode{"C.01.02", "C.03.04", "C.05.10"}, rs.Codes())
	assert.Equal(t, TypeAutomatic, rs.ClassificationType("C.01.02"))
	assert.Equal(t, TypeManual, rs.ClassificationType("C.03.04"))
	assert.Equal(t, TypeUnknown, rs.ClassificationType("C.05.10"))
	assert.Equal(t, TypeUnknown, rs.ClassificationType("C.99.99"))
	assert.Equal(t, "Losas", rs.Description("C.05.10"))
	assert.Equal(t, "", rs.Description("C.99.99"))

	assert.Equal(t, []string{"WIP", "JPEREZ"}, rs.WIPTokens())
	assert.Equal(t, []string{"COPY", "COPIA", "DUPLICADO"}, rs.CopyTokens())

	s := rs.Summarize()
	assert.Equal(t, 3, s.MatrixCodes)
	assert.Equal(t, 1, s.Manual)
	assert.Equal(t, 1, s.Automatic)
	assert.Equal(t, 3, s.ModelGroups)
}

func TestLoadDegradesOnMissingSheets(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	r := StaticReader{"MATRIZ": {{"NOT A CODE COLUMN"}}}

	rs := Load(context.Background(), r, DefaultSheets(), ir.DefaultProfile(), zap.New(core))

	assert.Empty(t, rs.Codes())
	assert.Empty(t, rs.Models())
	assert.Equal(t, ir.DefaultProfile().WIPTokens, rs.WIPTokens())
	assert.Equal(t, 1, logs.FilterMessage("classification matrix unusable").Len())
	assert.Equal(t, 2, logs.FilterMessage("rule sheet unreadable, treating as empty").Len())
}

func TestLoadWithoutReader(t *testing.T) {
	rs := Load(context.Background(), nil, DefaultSheets(), ir.DefaultProfile(), zap.NewNop())
	require.NotNil(t, rs)
	assert.Empty(t, rs.Codes())
}

func TestWhitelist(t *testing.T) {
	rs := Load(context.Background(), sampleReader(), DefaultSheets(), ir.DefaultProfile(), zap.NewNop())

	wl := rs.Whitelist("PRY-ARQ-01")
	assert.Equal(t, map[string]bool{"PRY-EST-01": true}, wl)
	assert.True(t, wl[NormalizeModelName("pry-est-01.rvt : 1 : Shared")])

	assert.Empty(t, rs.Whitelist("UNKNOWN"))
}

func TestNormalizeModelName(t *testing.T) {
	assert.Equal(t, "PRY-EST-01", NormalizeModelName("PRY-EST-01.rvt : 2 : Interno"))
	assert.Equal(t, "PRY-EST-01", NormalizeModelName(" pry-est-01.RVT "))
	assert.Equal(t, "MODELO.V2", NormalizeModelName("modelo.v2"))
}
