package android

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mindbox-cloud/mindbox-config/internal/patch/anchor"
	"github.com/mindbox-cloud/mindbox-config/internal/patch/gradle"
	"github.com/mindbox-cloud/mindbox-config/internal/patch/manifest"
	"github.com/mindbox-cloud/mindbox-config/internal/provider/patchstep"
)

func (b *builder) huawei() {
	agc := patchstep.NewCopyStep(
		tolerant(meta("android:files:agconnect-services", "copy agconnect-services.json")),
		b.fs, b.resolve(b.props.HuaweiServicesFilePath), b.at.app("agconnect-services.json"),
		"huaweiServicesFilePath is not set. agconnect-services.json will not be copied.",
	)
	b.add(agc,
		repositoryStep("android:gradle:huawei-repo", "add Huawei maven repository to build.gradle",
			b, gradle.HuaweiMavenURL, gradle.HuaweiMavenRepo),
		classpathStep("android:gradle:huawei-classpath", "add Huawei agcp classpath to build.gradle",
			b, gradle.HuaweiClasspath, gradle.HuaweiClasspathMarker),
		pluginStep("android:gradle:huawei-plugin", "apply Huawei agconnect plugin in app build.gradle",
			b, gradle.HuaweiPlugin, gradle.HuaweiPluginMarker),
		patchstep.NewTextStep(
			meta("android:manifest:huawei-appid", "ensure Huawei appid meta-data in AndroidManifest.xml", agc.ID()),
			b.fs, b.at.manifest(),
			metaDataTransform(HuaweiAppIDMetaData, b.huaweiAppID),
		),
	)
}

// huaweiAppID reads the package name from the app build.gradle and looks
// it up in the copied agconnect-services.json.
func (b *builder) huaweiAppID() (string, error) {
	gradlePath := b.at.appGradle()
	script, err := b.fs.ReadFile(gradlePath)
	if err != nil {
		return "", fmt.Errorf("could not read %s: %w", gradlePath, anchor.ErrNotFound)
	}
	pkg, ok := gradle.PackageName(string(script))
	if !ok {
		return "", fmt.Errorf("could not extract package name from build.gradle: %w", anchor.ErrNotFound)
	}

	agcPath := b.at.app("agconnect-services.json")
	data, err := b.fs.ReadFile(agcPath)
	if err != nil {
		return "", fmt.Errorf("could not extract app ID from agconnect-services.json: %w", anchor.ErrNotFound)
	}
	id, ok := AppIDFromAGConnect(data, pkg)
	if !ok {
		return "", fmt.Errorf("could not extract app ID for %s from agconnect-services.json: %w", pkg, anchor.ErrNotFound)
	}
	return "appid=" + id, nil
}

type agcApp struct {
	PackageName string      `json:"package_name"`
	AppID       interface{} `json:"app_id"`
}

// id renders app_id, which tools write either as a string or a number.
func (a *agcApp) id() string {
	if a == nil {
		return ""
	}
	switch v := a.AppID.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

type agcEntry struct {
	PackageName string  `json:"package_name"`
	Client      *agcApp `json:"client"`
	AppInfo     *agcApp `json:"app_info"`
}

type agcConfig struct {
	Client   *agcApp    `json:"client"`
	AppInfo  *agcApp    `json:"app_info"`
	AppInfos []agcEntry `json:"appInfos"`
}

// AppIDFromAGConnect finds the Huawei app id for pkg in an
// agconnect-services.json document. The client block is preferred over
// app_info; multi-app files list candidates under appInfos.
func AppIDFromAGConnect(data []byte, pkg string) (string, bool) {
	var cfg agcConfig
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&cfg); err != nil {
		return "", false
	}

	for _, app := range []*agcApp{cfg.Client, cfg.AppInfo} {
		if app != nil && app.PackageName == pkg && app.id() != "" {
			return app.id(), true
		}
	}

	for _, entry := range cfg.AppInfos {
		if entry.PackageName != pkg && (entry.AppInfo == nil || entry.AppInfo.PackageName != pkg) {
			continue
		}
		for _, app := range []*agcApp{entry.Client, entry.AppInfo} {
			if id := app.id(); id != "" {
				return id, true
			}
		}
		return "", false
	}
	return "", false
}

// metaDataTransform upserts one <meta-data> entry whose value is computed
// when the step runs.
func metaDataTransform(name string, value func() (string, error)) patchstep.Transform {
	return patchstep.Strict(func(text string) (string, error) {
		v, err := value()
		if err != nil {
			return text, err
		}
		return editManifest(text, func(m *manifest.Manifest) (bool, error) {
			return m.UpsertMetaData(name, v, manifest.Value)
		})
	})
}

// editManifest parses text, applies edit and re-serializes only when edit
// changed the tree.
func editManifest(text string, edit func(*manifest.Manifest) (bool, error)) (string, error) {
	m, err := manifest.Parse([]byte(text))
	if err != nil {
		return text, err
	}
	changed, err := edit(m)
	if err != nil || !changed {
		return text, err
	}
	out, err := m.Bytes()
	if err != nil {
		return text, fmt.Errorf("serialize manifest: %w", err)
	}
	return string(out), nil
}
