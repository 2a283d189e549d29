package mocks

import (
	"errors"
	"os"
	"sync"
	"testing"
)

func TestFileSystem_ReadFile(t *testing.T) {
	fs := NewFileSystem()
	fs.AddFile("/app/android/build.gradle", "buildscript {}")

	content, err := fs.ReadFile("/app/android/build.gradle")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(content) != "buildscript {}" {
		t.Errorf("ReadFile() = %q", string(content))
	}
}

func TestFileSystem_ReadFile_NotFound(t *testing.T) {
	fs := NewFileSystem()

	_, err := fs.ReadFile("/nonexistent")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ReadFile() error = %v, want os.ErrNotExist", err)
	}
}

func TestFileSystem_WriteFileCountsWrites(t *testing.T) {
	fs := NewFileSystem()

	_ = fs.WriteFile("/app/ios/Podfile", []byte("a"), 0o644)
	_ = fs.WriteFile("/app/ios/Podfile", []byte("b"), 0o644)

	if got := fs.Content("/app/ios/Podfile"); got != "b" {
		t.Errorf("Content() = %q, want %q", got, "b")
	}
	if fs.WriteCount("/app/ios/Podfile") != 2 {
		t.Errorf("WriteCount() = %d, want 2", fs.WriteCount("/app/ios/Podfile"))
	}
	if fs.TotalWrites() != 2 {
		t.Errorf("TotalWrites() = %d, want 2", fs.TotalWrites())
	}
}

func TestFileSystem_FailWrite(t *testing.T) {
	fs := NewFileSystem()
	boom := errors.New("read-only")
	fs.FailWrite("/app/strings.xml", boom)

	if err := fs.WriteFile("/app/strings.xml", []byte("x"), 0o644); !errors.Is(err, boom) {
		t.Errorf("WriteFile() error = %v, want %v", err, boom)
	}
	if fs.Exists("/app/strings.xml") {
		t.Error("failed write should not create the file")
	}
}

func TestFileSystem_ImplicitDirs(t *testing.T) {
	fs := NewFileSystem()
	fs.AddFile("/app/ios/App.xcodeproj/project.pbxproj", "{}")

	if !fs.IsDir("/app/ios") {
		t.Error("parent of a file should be a directory")
	}
	if !fs.IsDir("/app/ios/App.xcodeproj") {
		t.Error("project bundle should be a directory")
	}
	if fs.IsDir("/app/ios/App.xcodeproj/project.pbxproj") {
		t.Error("file should not be a directory")
	}
	if !fs.Exists("/app/ios/") {
		t.Error("Exists() should clean trailing slashes")
	}
}

func TestFileSystem_Glob(t *testing.T) {
	fs := NewFileSystem()
	fs.AddFile("/app/android/app/src/main/java/com/example/MainActivity.kt", "package com.example")
	fs.AddFile("/app/android/app/src/main/java/com/example/MainApplication.kt", "")
	fs.AddFile("/app/ios/App.xcodeproj/project.pbxproj", "{}")
	fs.AddDir("/app/ios/Pods.xcodeproj")

	got, err := fs.Glob("/app/android/app/src/main/java", "**/MainActivity.{java,kt}")
	if err != nil {
		t.Fatalf("Glob() error = %v", err)
	}
	if len(got) != 1 || got[0] != "com/example/MainActivity.kt" {
		t.Errorf("Glob() = %v", got)
	}

	got, err = fs.Glob("/app/ios", "*.xcodeproj")
	if err != nil {
		t.Fatalf("Glob() error = %v", err)
	}
	if len(got) != 2 || got[0] != "App.xcodeproj" || got[1] != "Pods.xcodeproj" {
		t.Errorf("Glob() = %v", got)
	}
}

func TestFileSystem_Glob_BadPattern(t *testing.T) {
	fs := NewFileSystem()
	if _, err := fs.Glob("/app", "[unterminated"); err == nil {
		t.Error("Glob() should reject malformed patterns")
	}
}

func TestFileSystem_FileHash(t *testing.T) {
	fs := NewFileSystem()
	fs.AddFile("/a", "same")
	fs.AddFile("/b", "same")

	ha, err := fs.FileHash("/a")
	if err != nil {
		t.Fatalf("FileHash() error = %v", err)
	}
	hb, _ := fs.FileHash("/b")
	if ha != hb {
		t.Error("identical content should hash identically")
	}
	if _, err := fs.FileHash("/missing"); err == nil {
		t.Error("FileHash() should fail for missing files")
	}
}

func TestFileSystem_Reset(t *testing.T) {
	fs := NewFileSystem()
	fs.AddFile("/file", "content")
	_ = fs.WriteFile("/other", []byte("x"), 0o644)

	fs.Reset()

	if fs.Exists("/file") || fs.TotalWrites() != 0 {
		t.Error("Reset() should clear files and write counters")
	}
}

func TestFileSystem_Concurrent(t *testing.T) {
	fs := NewFileSystem()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = fs.WriteFile("/shared", []byte("x"), 0o644)
		}()
		go func() {
			defer wg.Done()
			_, _ = fs.ReadFile("/shared")
			_, _ = fs.Glob("/", "**")
		}()
	}
	wg.Wait()

	if fs.WriteCount("/shared") != 50 {
		t.Errorf("WriteCount() = %d, want 50", fs.WriteCount("/shared"))
	}
}
