package runner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProperties_Expand(t *testing.T) {
	props := properties{"basedir": "/work/proj", "vsim-executable": "vsim"}

	testCases := []struct {
		in   string
		want string
	}{
		{"${basedir}/src/a.vhd", "/work/proj/src/a.vhd"},
		{"${vsim-executable}", "vsim"},
		{"-gstimulus_main_entry_label=$testMain", "-gstimulus_main_entry_label=$testMain"},
		{"${unknown}/x", "${unknown}/x"},
		{"${basedir}${basedir}", "/work/proj/work/proj"},
		{"broken ${basedir", "broken ${basedir"},
		{"", ""},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, props.expand(tc.in))
		})
	}
}

func TestProperties_SetOnce(t *testing.T) {
	props := properties{}
	props.set("a", "first")
	props.set("a", "second")
	assert.Equal(t, "first", props["a"])
	assert.True(t, props.isSet("a"))
	assert.False(t, props.isSet("b"))
}
