package plist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"howett.net/plist"
)

const infoPlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>CFBundleName</key>
	<string>ExampleApp</string>
	<key>UIBackgroundModes</key>
	<array>
		<string>audio</string>
		<string>fetch</string>
	</array>
</dict>
</plist>
`

func TestLoad_Empty(t *testing.T) {
	t.Parallel()

	doc, err := Load(nil)
	require.NoError(t, err)
	assert.Empty(t, doc.Dict)
	assert.Equal(t, plist.XMLFormat, doc.Format)
}

func TestLoad_Invalid(t *testing.T) {
	t.Parallel()

	_, err := Load([]byte("<plist><dict><key>a</key></plist"))
	assert.Error(t, err)
}

func TestMergeStringArray(t *testing.T) {
	t.Parallel()

	doc, err := Load([]byte(infoPlist))
	require.NoError(t, err)

	changed := doc.Dict.MergeStringArray("UIBackgroundModes", "remote-notification", "processing", "fetch")
	assert.True(t, changed)
	assert.Equal(t, []string{"audio", "fetch", "remote-notification", "processing"}, doc.Dict.StringArray("UIBackgroundModes"))

	assert.False(t, doc.Dict.MergeStringArray("UIBackgroundModes", "remote-notification", "processing", "fetch"))
}

func TestMergeStringArray_MissingOrWrongType(t *testing.T) {
	t.Parallel()

	d := Dict{"wrong": "scalar"}
	assert.True(t, d.MergeStringArray("missing", "a", "b"))
	assert.Equal(t, []string{"a", "b"}, d.StringArray("missing"))

	assert.True(t, d.MergeStringArray("wrong", "a"))
	assert.Equal(t, []string{"a"}, d.StringArray("wrong"))
}

func TestSetters(t *testing.T) {
	t.Parallel()

	d := Dict{}
	assert.True(t, d.SetString("aps-environment", "development"))
	assert.False(t, d.SetString("aps-environment", "development"))
	assert.True(t, d.SetString("aps-environment", "production"))
}

func TestEncode_RoundTrip(t *testing.T) {
	t.Parallel()

	doc, err := Load([]byte(infoPlist))
	require.NoError(t, err)
	doc.Dict.MergeStringArray("BGTaskSchedulerPermittedIdentifiers", "cloud.MindBox.com.example.app.GDAppRefresh")

	out, err := doc.Encode()
	require.NoError(t, err)
	assert.Contains(t, string(out), "<key>BGTaskSchedulerPermittedIdentifiers</key>")
	assert.Contains(t, string(out), "<string>cloud.MindBox.com.example.app.GDAppRefresh</string>")

	again, err := Load(out)
	require.NoError(t, err)
	assert.Equal(t, doc.Dict.StringArray("UIBackgroundModes"), again.Dict.StringArray("UIBackgroundModes"))
	assert.Equal(t, "ExampleApp", again.Dict["CFBundleName"])

	out2, err := again.Encode()
	require.NoError(t, err)
	assert.Equal(t, out, out2)
}
