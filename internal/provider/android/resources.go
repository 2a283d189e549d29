package android

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mindbox-cloud/mindbox-config/internal/patch/anchor"
	"github.com/mindbox-cloud/mindbox-config/internal/patch/resources"
	"github.com/mindbox-cloud/mindbox-config/internal/provider/patchstep"
	"github.com/mindbox-cloud/mindbox-config/internal/validation"
)

// channelEntries returns the strings.xml entries for the channel values
// that are set.
func (b *builder) channelEntries() []resources.Entry {
	var entries []resources.Entry
	for _, e := range []resources.Entry{
		resources.String(resources.ChannelID, b.props.AndroidChannelID),
		resources.String(resources.ChannelName, b.props.AndroidChannelName),
		resources.String(resources.ChannelDescription, b.props.AndroidChannelDescription),
	} {
		if e.Value != "" {
			entries = append(entries, e)
		}
	}
	return entries
}

func (b *builder) resources() {
	strs := tolerant(meta("android:resources:strings", "write strings.xml"))
	if entries := b.channelEntries(); len(entries) > 0 {
		b.add(upsertStep(b, strs, "strings.xml", entries))
	} else {
		b.add(patchstep.NewNoticeStep(strs, "no string values provided, skipping update"))
	}

	colors := tolerant(meta("android:resources:colors", "write colors.xml"))
	if b.props.SmallIconAccentColor != "" {
		b.add(upsertStep(b, colors, "colors.xml",
			[]resources.Entry{resources.Color(resources.NotificationColor, b.props.SmallIconAccentColor)}))
	} else {
		b.add(patchstep.NewNoticeStep(colors, "no color provided, skipping update"))
	}

	icon := tolerant(meta("android:resources:icon", "copy notification icon"))
	if b.props.SmallIcon == "" {
		b.add(patchstep.NewNoticeStep(icon, "no source path provided, skipping update"))
		return
	}
	src := b.resolve(b.props.SmallIcon)
	ext := strings.ToLower(filepath.Ext(src))
	dst := b.at.res("drawable", resources.SmallIcon+ext)
	b.add(patchstep.NewWriteStep(icon, b.fs, dst, func() ([]byte, error) {
		if err := validation.ValidateIconExtension(src); err != nil {
			return nil, err
		}
		if !b.fs.Exists(src) {
			return nil, fmt.Errorf("icon file not found: %s: %w", src, anchor.ErrNotFound)
		}
		return b.fs.ReadFile(src)
	}))
}

func upsertStep(b *builder, m patchstep.Meta, file string, entries []resources.Entry) *patchstep.TextStep {
	return patchstep.NewTextStep(m, b.fs, b.at.res("values", file),
		patchstep.Pure(func(text string) string { return resources.Upsert(text, entries) }),
	).CreateMissing()
}
