package embedding

import (
	"testing"

	"github.com/spigell/cv-sync/internal/model"
)

func TestShouldRegenerateReflexive(t *testing.T) {
	t.Parallel()

	for _, r := range []*model.Resume{nil, {}, sampleResume()} {
		sig := SignatureOf(r)
		if ShouldRegenerate(sig, sig) {
			t.Fatalf("expected identical signatures to not require regeneration: %+v", sig)
		}
	}
}

func TestShouldRegenerateSensitivity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(r *model.Resume)
		want   bool
	}{
		{
			name:   "adding a skill",
			mutate: func(r *model.Resume) { r.Skills = append(r.Skills, model.Skill{Name: "Kubernetes"}) },
			want:   true,
		},
		{
			name:   "removing an experience",
			mutate: func(r *model.Resume) { r.Experiences = r.Experiences[:1] },
			want:   true,
		},
		{
			name:   "changing the summary",
			mutate: func(r *model.Resume) { r.Personal.Summary = "Now into ML." },
			want:   true,
		},
		{
			name:   "changing the title",
			mutate: func(r *model.Resume) { r.Personal.Title = "Staff Engineer" },
			want:   true,
		},
		{
			name:   "adding a language",
			mutate: func(r *model.Resume) { r.Languages = append(r.Languages, model.Language{Name: "German"}) },
			want:   true,
		},
		{
			name:   "renaming a skill",
			mutate: func(r *model.Resume) { r.Skills[2].Name = "Zig" },
			want:   true,
		},
		{
			name:   "editing an experience description",
			mutate: func(r *model.Resume) { r.Experiences[0].Description = "Card processing" },
			want:   false,
		},
		{
			name:   "changing a skill proficiency",
			mutate: func(r *model.Resume) { r.Skills[2].Proficiency = model.SkillExpert },
			want:   false,
		},
		{
			name: "reordering skills",
			mutate: func(r *model.Resume) {
				r.Skills[0], r.Skills[2] = r.Skills[2], r.Skills[0]
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			base := sampleResume()
			changed := sampleResume()
			tt.mutate(changed)

			if got := ShouldRegenerate(SignatureOf(base), SignatureOf(changed)); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
