package manifest

import (
	"strings"
	"testing"

	"github.com/mindbox-cloud/mindbox-config/internal/patch/anchor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const expoManifest = `<?xml version="1.0" encoding="utf-8"?>
<manifest xmlns:android="http://schemas.android.com/apk/res/android">
    <uses-permission android:name="android.permission.INTERNET"/>
    <application android:name=".MainApplication" android:label="@string/app_name">
        <meta-data android:name="expo.modules.updates.ENABLED" android:value="false"/>
        <activity android:name=".MainActivity" android:exported="true"/>
    </application>
</manifest>
`

func parse(t *testing.T, text string) *Manifest {
	t.Helper()
	m, err := Parse([]byte(text))
	require.NoError(t, err)
	return m
}

func encode(t *testing.T, m *Manifest) string {
	t.Helper()
	out, err := m.Bytes()
	require.NoError(t, err)
	return string(out)
}

func TestParse_RejectsNonManifest(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte(`<resources/>`))
	assert.ErrorIs(t, err, anchor.ErrNotFound)

	_, err = Parse([]byte(`<manifest`))
	assert.Error(t, err)
}

func TestEnsureToolsNamespace(t *testing.T) {
	t.Parallel()

	m := parse(t, expoManifest)
	assert.True(t, m.EnsureToolsNamespace())
	assert.False(t, m.EnsureToolsNamespace())
	assert.Contains(t, encode(t, m), `xmlns:tools="http://schemas.android.com/tools"`)
}

func TestApplication_Missing(t *testing.T) {
	t.Parallel()

	m := parse(t, `<manifest/>`)
	_, err := m.UpsertMetaData("a", "b", Value)
	assert.ErrorIs(t, err, anchor.ErrNotFound)
	_, err = m.UpsertService(Service{Name: "x"})
	assert.ErrorIs(t, err, anchor.ErrNotFound)
	_, err = m.RemoveService("x")
	assert.ErrorIs(t, err, anchor.ErrNotFound)
}

func TestUpsertMetaData(t *testing.T) {
	t.Parallel()

	m := parse(t, expoManifest)
	changed, err := m.UpsertMetaData("ru.rustore.sdk.pushclient.project_id", "abc", Value)
	require.NoError(t, err)
	assert.True(t, changed)

	value, ok := m.MetaData("ru.rustore.sdk.pushclient.project_id")
	require.True(t, ok)
	assert.Equal(t, "abc", value)

	changed, err = m.UpsertMetaData("ru.rustore.sdk.pushclient.project_id", "abc", Value)
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = m.UpsertMetaData("ru.rustore.sdk.pushclient.project_id", "xyz", Value)
	require.NoError(t, err)
	assert.True(t, changed)

	out := encode(t, m)
	assert.Equal(t, 1, strings.Count(out, "ru.rustore.sdk.pushclient.project_id"))
	assert.Contains(t, out, `android:value="xyz"`)
}

func TestUpsertMetaData_CollapsesDuplicates(t *testing.T) {
	t.Parallel()

	m := parse(t, `<manifest xmlns:android="http://schemas.android.com/apk/res/android"><application>
<meta-data android:name="k" android:value="v"/>
<meta-data android:name="k" android:value="v"/>
</application></manifest>`)

	changed, err := m.UpsertMetaData("k", "v", Value)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 1, strings.Count(encode(t, m), `android:name="k"`))
}

func TestUpsertService(t *testing.T) {
	t.Parallel()

	svc := Service{
		Name:          "com.example.app.MindboxExpoFirebaseService",
		IntentActions: []string{"com.google.firebase.MESSAGING_EVENT"},
	}

	m := parse(t, expoManifest)
	changed, err := m.UpsertService(svc)
	require.NoError(t, err)
	assert.True(t, changed)

	out := encode(t, m)
	assert.Contains(t, out, `<service android:name="com.example.app.MindboxExpoFirebaseService" android:exported="false">`)
	assert.Contains(t, out, `<action android:name="com.google.firebase.MESSAGING_EVENT"/>`)

	reparsed := parse(t, out)
	changed, err = reparsed.UpsertService(svc)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, out, encode(t, reparsed))
}

func TestUpsertService_ReplacesInPlace(t *testing.T) {
	t.Parallel()

	m := parse(t, `<manifest xmlns:android="http://schemas.android.com/apk/res/android"><application>
<service android:name="s" android:exported="true"/>
<activity android:name=".Main"/>
</application></manifest>`)

	changed, err := m.UpsertService(Service{Name: "s"})
	require.NoError(t, err)
	assert.True(t, changed)

	out := encode(t, m)
	assert.Equal(t, 1, strings.Count(out, "<service"))
	assert.Less(t, strings.Index(out, "<service"), strings.Index(out, "<activity"))
	assert.Contains(t, out, `android:exported="false"`)
}

func TestRemoveService(t *testing.T) {
	t.Parallel()

	const expo = "expo.modules.notifications.service.ExpoFirebaseMessagingService"

	m := parse(t, expoManifest)
	changed, err := m.RemoveService(expo)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Contains(t, encode(t, m), `<service android:name="`+expo+`" tools:node="remove"/>`)

	changed, err = m.RemoveService(expo)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestRemoveService_MarksExisting(t *testing.T) {
	t.Parallel()

	m := parse(t, `<manifest xmlns:android="http://schemas.android.com/apk/res/android"><application>
<service android:name="s" android:exported="false"/>
</application></manifest>`)

	changed, err := m.RemoveService("s")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Contains(t, encode(t, m), `<service android:name="s" android:exported="false" tools:node="remove"/>`)
}
