package ios

import (
	"fmt"
	"strings"

	"github.com/mindbox-cloud/mindbox-config/internal/domain/compiler"
	"github.com/mindbox-cloud/mindbox-config/internal/ports"
	"github.com/mindbox-cloud/mindbox-config/internal/provider/fileutil"
	"github.com/mindbox-cloud/mindbox-config/internal/provider/patchstep"
	"github.com/mindbox-cloud/mindbox-config/internal/xcodeproj"
)

// TargetStep adds a notification extension target to project.pbxproj.
// The target is built on a copy of the project graph; the file is only
// written when every stage succeeded.
type TargetStep struct {
	id          compiler.StepID
	deps        []compiler.StepID
	fs          ports.FileSystem
	path        string
	projectName string
	target      xcodeproj.ExtensionTarget
}

func (b *builder) xcodeTarget(ext Extension) {
	m := tolerant(meta(targetID(ext), "add "+ext.Name+" target to Xcode project"))
	if b.bundleID() == "" {
		b.add(patchstep.NewNoticeStep(m, "ios.bundleIdentifier is not defined, skipping "+ext.Name+" target"))
		return
	}
	b.add(&TargetStep{
		id:          m.ID,
		deps:        []compiler.StepID{compiler.MustNewStepID(filesID(ext))},
		fs:          b.fs,
		path:        b.at.pbxproj(),
		projectName: b.at.project.IOSProjectName,
		target: xcodeproj.ExtensionTarget{
			Name:             ext.Name,
			BundleID:         ext.BundleID(b.bundleID()),
			Sources:          []string{ext.Source},
			InfoPlist:        "Info.plist",
			Entitlements:     ext.Entitlements(),
			Frameworks:       ext.Frameworks,
			DeploymentTarget: b.props.IOSDeploymentTarget,
			DevelopmentTeam:  b.props.IOSDevTeam,
			SwiftVersion:     SwiftVersion,
		},
	})
}

// ID returns the step identifier.
func (s *TargetStep) ID() compiler.StepID { return s.id }

// DependsOn returns the extension files step.
func (s *TargetStep) DependsOn() []compiler.StepID { return s.deps }

// Tolerant reports that target creation failures are warnings.
func (s *TargetStep) Tolerant() bool { return true }

func (s *TargetStep) summary() string {
	return "add " + s.target.Name + " target to Xcode project"
}

func (s *TargetStep) load() (*xcodeproj.Project, bool, error) {
	data, ok, err := fileutil.Read(s.fs, s.path)
	if err != nil || !ok {
		return nil, ok, err
	}
	p, err := xcodeproj.Parse(data)
	if err != nil {
		return nil, true, fmt.Errorf("%s: %w", s.path, err)
	}
	p.SetName(s.projectName)
	return p, true, nil
}

// Check reports whether the target already exists.
func (s *TargetStep) Check(ctx compiler.RunContext) (compiler.StepStatus, error) {
	p, ok, err := s.load()
	if err != nil {
		return compiler.StatusUnknown, err
	}
	if !ok {
		ctx.Warn(s.summary(), s.path+" not found", ports.F("step", s.id.String()))
		return compiler.StatusSkipped, nil
	}
	if _, exists := p.TargetByName(s.target.Name); exists {
		return compiler.StatusSatisfied, nil
	}
	return compiler.StatusNeedsApply, nil
}

// Plan describes the target to be created.
func (s *TargetStep) Plan(_ compiler.RunContext) (compiler.Diff, error) {
	return compiler.NewDiff(compiler.DiffTypeAdd, "xcode", s.target.Name, "", s.target.BundleID).
		WithDetail(
			"sources: "+strings.Join(s.target.Sources, ", "),
			"frameworks: "+strings.Join(s.target.Frameworks, ", "),
			"deployment target: "+s.target.DeploymentTarget,
		), nil
}

// Apply creates the target and writes the project.
func (s *TargetStep) Apply(ctx compiler.RunContext) error {
	p, ok, err := s.load()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s not found", s.path)
	}

	res, err := xcodeproj.AddExtensionTarget(p, s.target)
	logger := ctx.Logger()
	for _, stage := range res.Stages {
		logger.Debug(ctx.Context(), "xcode target stage", ports.F("target", s.target.Name), ports.F("stage", stage))
	}
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		ctx.Warn(s.summary(), w, ports.F("target", s.target.Name))
	}
	if !res.Created {
		return nil
	}
	logger.Debug(ctx.Context(), "xcode target created",
		ports.F("target", s.target.Name), ports.F("objects_added", res.Project.Len()-p.Len()))
	_, err = fileutil.WriteIfChanged(s.fs, s.path, res.Project.Encode())
	return err
}

// Explain provides a human-readable explanation.
func (s *TargetStep) Explain(_ compiler.ExplainContext) compiler.Explanation {
	return compiler.NewExplanation(s.summary(),
		"Creates the app extension target, its build phases and configurations, and embeds it in the app target.", nil)
}

var _ compiler.TolerantStep = (*TargetStep)(nil)
