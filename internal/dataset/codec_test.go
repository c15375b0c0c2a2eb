package dataset_test

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/airroutes/internal/dataset"
	"github.com/vvka-141/airroutes/pkg/airroutes"
)

func TestRead_NullAndQuoting(t *testing.T) {
	records, err := dataset.Read(strings.NewReader(`1,"Private flight",\N,"-","N/A","","","Y"` + "\n"))
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, 1, rec.Line)
	assert.Len(t, rec.Fields, 8)
	assert.Equal(t, "Private flight", rec.Fields[1].Value)
	assert.True(t, rec.Fields[2].Null, `\N should read as NULL`)
	assert.False(t, rec.Fields[5].Null, "quoted empty string is not NULL")
	assert.Equal(t, "", rec.Fields[5].Value)
}

func TestRead_LineNumbers(t *testing.T) {
	input := "a,b\n\"multi\nline\",c\nd,e\n"
	records, err := dataset.Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []int{1, 2, 4}, []int{records[0].Line, records[1].Line, records[2].Line})
}

func TestRead_CommaInsideQuotes(t *testing.T) {
	records, err := dataset.Read(strings.NewReader(`"Bonaire, Saint Eustatius and Saba",BQ,\N` + "\n"))
	require.NoError(t, err)
	require.Len(t, records[0].Fields, 3)
	assert.Equal(t, "Bonaire, Saint Eustatius and Saba", records[0].Fields[0].Value)
}

func TestRead_QuotedNullSentinelIsText(t *testing.T) {
	records, err := dataset.Read(strings.NewReader(`Boeing,"\N",\N` + "\n"))
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, dataset.ValueField(airroutes.NullSentinel), rec.Fields[1], "quoted \\N is a literal")
	assert.True(t, rec.Fields[2].Null)
}

func TestWriteThenRead_LiteralNullSentinel(t *testing.T) {
	in := []dataset.Record{{Fields: []dataset.Field{
		dataset.ValueField(airroutes.NullSentinel),
		dataset.NullField(),
	}}}

	out, err := dataset.Read(strings.NewReader(encode(t, in)))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, in[0].Fields, out[0].Fields)
}

func TestRead_BlankLines(t *testing.T) {
	tests := map[string]struct {
		input string
		line  string
	}{
		"leading":          {"\na,b\n", "line 1:"},
		"between":          {"a,b\n\nc,d\n", "line 2:"},
		"trailing":         {"a,b\nc,d\n\n", "line 3:"},
		"crlf":             {"a,b\r\n\r\nc,d\r\n", "line 2:"},
		"after multi-line": {"a,\"x\ny\"\n\nc,d\n", "line 3:"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := dataset.Read(strings.NewReader(tt.input))
			require.ErrorIs(t, err, airroutes.ErrMalformedInput)
			assert.Contains(t, err.Error(), tt.line)
			assert.Contains(t, err.Error(), "empty line")
		})
	}
}

func TestRead_NoTrailingNewline(t *testing.T) {
	records, err := dataset.Read(strings.NewReader("a,b\nc,\"x\ny\""))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "x\ny", records[1].Fields[1].Value)
}

func TestRead_Empty(t *testing.T) {
	records, err := dataset.Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRead_RaggedRecordsAreKept(t *testing.T) {
	records, err := dataset.Read(strings.NewReader("a,b,c\nd\n"))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Len(t, records[0].Fields, 3)
	assert.Len(t, records[1].Fields, 1)
}

func TestWrite_Encoding(t *testing.T) {
	records := []dataset.Record{{Fields: []dataset.Field{
		dataset.ValueField("Test Air"),
		dataset.NullField(),
		dataset.ValueField(""),
		dataset.ValueField("Bonaire, Saba"),
		dataset.ValueField(`say "hi"`),
	}}}

	assert.Equal(t, `Test Air,\N,,"Bonaire, Saba","say ""hi"""`+"\n", encode(t, records))
}

func TestRecord_GetOutOfRange(t *testing.T) {
	rec := dataset.Record{Fields: []dataset.Field{dataset.ValueField("x")}}
	assert.True(t, rec.Get(5).Null)
	assert.True(t, rec.Get(-1).Null)
	assert.Equal(t, "x", rec.Get(0).Value)
}

func TestRecord_CloneIsIndependent(t *testing.T) {
	rec := dataset.Record{Line: 3, Fields: []dataset.Field{dataset.ValueField("320 738")}}
	c := rec.Clone()
	c.Fields[0] = dataset.ValueField("320")
	assert.Equal(t, "320 738", rec.Fields[0].Value)
	assert.Equal(t, 3, c.Line)
}

func TestProperty_WriteThenReadPreservesFields(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	field := gen.OneGenOf(
		gen.AnyString(),
		gen.AlphaString(),
		gen.OneConstOf("", ",", `"`, "a,b", "x\ny", `\N`),
	)

	properties.Property("fields survive a write/read cycle", prop.ForAll(
		func(values []string, nullMask []bool) bool {
			if len(values) == 0 {
				return true
			}
			fields := make([]dataset.Field, len(values))
			for i, v := range values {
				if i < len(nullMask) && nullMask[i] {
					fields[i] = dataset.NullField()
					continue
				}
				if strings.ContainsRune(v, '\r') {
					v = "plain"
				}
				fields[i] = dataset.ValueField(v)
			}

			var sb strings.Builder
			if err := dataset.Write(&sb, []dataset.Record{{Fields: fields}}); err != nil {
				return false
			}
			got, err := dataset.Read(strings.NewReader(sb.String()))
			if err != nil || len(got) != 1 || len(got[0].Fields) != len(fields) {
				return false
			}
			for i := range fields {
				if got[0].Fields[i] != fields[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(6, field),
		gen.SliceOfN(6, gen.Bool()),
	))

	properties.TestingRun(t)
}
