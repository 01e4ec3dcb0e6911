package permission

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanFailsClosed(t *testing.T) {
	var nilSet Set
	assert.False(t, nilSet.Can(SectionMaster, CanCreate))

	empty := Set{}
	assert.False(t, empty.Can(SectionMaster, CanCreate))

	other := Set{{PageName: SectionCustomer, CanCreate: true}}
	assert.False(t, other.Can(SectionMaster, CanCreate))
}

func TestCanReturnsStoredFlag(t *testing.T) {
	set := Set{{
		PageName:  SectionMaster,
		CanCreate: true,
		CanUpdate: false,
		CanDelete: true,
		CanExport: false,
	}}

	assert.True(t, set.Can(SectionMaster, CanCreate))
	assert.False(t, set.Can(SectionMaster, CanUpdate))
	assert.True(t, set.Can(SectionMaster, CanDelete))
	assert.False(t, set.Can(SectionMaster, CanExport))
}

func TestCanRequiresExactSectionMatch(t *testing.T) {
	set := Set{{PageName: SectionMaster, CanCreate: true}}
	assert.False(t, set.Can("master", CanCreate))
	assert.False(t, set.Can("Master ", CanCreate))
}

func TestCanUnknownCapability(t *testing.T) {
	set := Set{{PageName: SectionMaster, CanCreate: true}}
	assert.False(t, set.Can(SectionMaster, Capability("can_publish")))
}

func TestFlagJSONRoundTrip(t *testing.T) {
	var record Record
	raw := `{"page_name":"Master","can_create":1,"can_update":0,"can_delete":true,"can_export":false}`
	require.NoError(t, json.Unmarshal([]byte(raw), &record))

	assert.True(t, record.CanCreate.Bool())
	assert.False(t, record.CanUpdate.Bool())
	assert.True(t, record.CanDelete.Bool())
	assert.False(t, record.CanExport.Bool())

	out, err := json.Marshal(record)
	require.NoError(t, err)
	assert.JSONEq(t, `{"page_name":"Master","can_create":1,"can_update":0,"can_delete":1,"can_export":0}`, string(out))
}

func TestFlagRejectsGarbage(t *testing.T) {
	var f Flag
	require.Error(t, json.Unmarshal([]byte(`"yes"`), &f))
}

func TestFlagScan(t *testing.T) {
	var f Flag
	require.NoError(t, f.Scan(int64(1)))
	assert.True(t, f.Bool())
	require.NoError(t, f.Scan(int64(0)))
	assert.False(t, f.Bool())
	require.NoError(t, f.Scan(true))
	assert.True(t, f.Bool())
	require.NoError(t, f.Scan(nil))
	assert.False(t, f.Bool())
}

func TestKnownSection(t *testing.T) {
	assert.True(t, KnownSection(SectionCustomer))
	assert.False(t, KnownSection("Warehouse"))
}
