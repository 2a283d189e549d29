package ios

import (
	"github.com/mindbox-cloud/mindbox-config/internal/patch/podfile"
	"github.com/mindbox-cloud/mindbox-config/internal/provider/patchstep"
)

func (b *builder) podfile() {
	b.add(
		patchstep.NewTextStep(
			meta("ios:podfile:pods", "add Mindbox pods to Podfile"),
			b.fs, b.at.podfile(),
			patchstep.Strict(func(text string) (string, error) {
				return podfile.AddPods(text, podfile.PrepareAnchor, appPods)
			}),
		),
		patchstep.NewTextStep(
			meta("ios:podfile:extension-targets", "add notification extension targets to Podfile"),
			b.fs, b.at.podfile(),
			patchstep.Pure(func(text string) string {
				for _, ext := range []Extension{Service, Content} {
					text = podfile.EnsureTarget(text, ext.Name, []string{extensionPod})
				}
				return text
			}),
		),
	)
}
