// Package templates renders the native source files the plugin adds to
// generated projects: the Expo-compatible Firebase service and the
// notification extension sources, Info.plist and entitlements.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
)

//go:embed native/*
var nativeFS embed.FS

var parsed = template.Must(template.ParseFS(nativeFS, "native/*.tmpl"))

// Extension kinds.
const (
	ServiceExtension = "service"
	ContentExtension = "content"
)

// Extension point identifiers written to NSExtensionPointIdentifier.
const (
	ServiceExtensionPoint = "com.apple.usernotifications.service"
	ContentExtensionPoint = "com.apple.usernotifications.content-extension"
)

// InfoPlistData feeds the extension Info.plist template.
type InfoPlistData struct {
	Name           string
	ExtensionPoint string
	PrincipalClass string
	Content        bool
}

// EntitlementsData feeds the extension entitlements template.
type EntitlementsData struct {
	AppGroupID string
	Sandbox    bool
}

func render(name string, data interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := parsed.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// FirebaseService renders MindboxExpoFirebaseService.kt for pkg.
func FirebaseService(pkg string) ([]byte, error) {
	return render("MindboxExpoFirebaseService.kt.tmpl", struct{ Package string }{pkg})
}

// ExtensionSource returns the built-in Swift source for kind.
func ExtensionSource(kind string) ([]byte, error) {
	switch kind {
	case ServiceExtension:
		return nativeFS.ReadFile("native/NotificationService.swift")
	case ContentExtension:
		return nativeFS.ReadFile("native/NotificationViewController.swift")
	default:
		return nil, fmt.Errorf("unknown extension kind %q", kind)
	}
}

// InfoPlist renders the Info.plist of an extension target.
func InfoPlist(kind, name string) ([]byte, error) {
	data := InfoPlistData{Name: name}
	switch kind {
	case ServiceExtension:
		data.ExtensionPoint = ServiceExtensionPoint
		data.PrincipalClass = "NotificationService"
	case ContentExtension:
		data.ExtensionPoint = ContentExtensionPoint
		data.PrincipalClass = "NotificationViewController"
		data.Content = true
	default:
		return nil, fmt.Errorf("unknown extension kind %q", kind)
	}
	return render("Info.plist.tmpl", data)
}

// Entitlements renders the entitlements of an extension target. The
// content extension additionally runs sandboxed.
func Entitlements(kind, appGroupID string) ([]byte, error) {
	return render("extension.entitlements.tmpl", EntitlementsData{
		AppGroupID: appGroupID,
		Sandbox:    kind == ContentExtension,
	})
}
