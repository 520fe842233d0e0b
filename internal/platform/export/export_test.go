package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type row struct {
	name  string
	phone string
}

func TestWorkbook(t *testing.T) {
	cols := []Column[row]{
		{Header: "Name", Width: 25, Value: func(r row) any { return r.name }},
		{Header: "Phone", Value: func(r row) any { return OrNA(r.phone) }},
	}
	raw, err := Workbook("Patients", cols, []row{{"Amal", "9847000000"}, {"Beena", ""}})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Patients"}, f.GetSheetList())

	rows, err := f.GetRows("Patients")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Name", "Phone"}, rows[0])
	assert.Equal(t, []string{"Amal", "9847000000"}, rows[1])
	assert.Equal(t, []string{"Beena", "N/A"}, rows[2])

	width, err := f.GetColWidth("Patients", "A")
	require.NoError(t, err)
	assert.Equal(t, 25.0, width)
}

func TestWorkbook_HeaderOnly(t *testing.T) {
	cols := []Column[row]{{Header: "Name", Value: func(r row) any { return r.name }}}
	raw, err := Workbook("Reports", cols, nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Reports")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Name"}}, rows)
}
