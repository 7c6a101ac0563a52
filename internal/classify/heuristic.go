package classify

import (
	"context"
	"sort"
	"strings"

	"github.com/remoteeu/jobboard/internal/db"
	"github.com/remoteeu/jobboard/internal/pipeline"
	"github.com/remoteeu/jobboard/internal/skills"
	"github.com/remoteeu/jobboard/internal/status"
)

// roleKeywords mark a posting as an engineering role. A title hit is decisive;
// description hits only count in aggregate.
var roleKeywords = []string{
	"engineer", "developer", "sre", "devops", "architect",
	"programmer", "software", "backend", "full stack", "fullstack",
}

// KeywordTagger is a baseline role tagger built on title and description
// keyword matching against the skill taxonomy.
type KeywordTagger struct{}

func (KeywordTagger) TagRole(_ context.Context, job db.Job) (pipeline.RoleVerdict, error) {
	title := strings.ToLower(job.Title)
	description := ""
	if job.Description != nil {
		description = strings.ToLower(*job.Description)
	}

	titleHit := false
	for _, kw := range roleKeywords {
		if strings.Contains(title, kw) {
			titleHit = true
			break
		}
	}

	tags := extractSkillTags(title, description)

	if !titleHit {
		return pipeline.RoleVerdict{
			Match:  false,
			Score:  0.1,
			Reason: "title does not look like an engineering role",
		}, nil
	}

	score := 0.6 + 0.05*float64(len(tags))
	if score > 0.95 {
		score = 0.95
	}
	return pipeline.RoleVerdict{
		Match:     true,
		Score:     score,
		Reason:    "engineering keywords in title",
		SkillTags: tags,
	}, nil
}

// extractSkillTags walks the canonical taxonomy and keeps every tag whose
// keyword variants appear in the text. Title hits rank as required skills,
// description-only hits as preferred.
func extractSkillTags(title, description string) []db.SkillTagCreate {
	var tags []db.SkillTagCreate
	for tag := range skills.Canonical {
		level, hit := "", false
		for _, kw := range skills.FallbackKeywords(tag) {
			kw = strings.ToLower(kw)
			if strings.Contains(title, kw) {
				level, hit = db.SkillLevelRequired, true
				break
			}
			if strings.Contains(description, kw) {
				level, hit = db.SkillLevelPreferred, true
			}
		}
		if hit {
			confidence := 0.6
			if level == db.SkillLevelRequired {
				confidence = 0.9
			}
			tags = append(tags, db.SkillTagCreate{
				Tag:        tag,
				Level:      level,
				Confidence: confidence,
				Evidence:   "keyword match",
			})
		}
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Tag < tags[j].Tag })
	return tags
}

// euWidePhrases signal the role is open across the whole EU.
var euWidePhrases = []string{
	"remote (emea)", "remote - emea", "remote emea",
	"remote (europe)", "remote - europe", "remote europe",
	"anywhere in europe", "anywhere in the eu", "across europe",
	"remote (eu)", "remote - eu", "remote, eu", "eu remote",
}

// euCountries covers member states that show up in location strings.
var euCountries = []string{
	"austria", "belgium", "bulgaria", "croatia", "cyprus", "czech",
	"denmark", "estonia", "finland", "france", "germany", "greece",
	"hungary", "ireland", "italy", "latvia", "lithuania", "luxembourg",
	"malta", "netherlands", "poland", "portugal", "romania", "slovakia",
	"slovenia", "spain", "sweden",
}

// restrictionPhrases rule out EU-wide remote work regardless of other hits.
var restrictionPhrases = []string{
	"us only", "u.s. only", "usa only", "united states only",
	"us-based", "based in the us", "north america only",
	"uk only", "must be located in the us", "us work authorization",
	"hybrid", "on-site", "onsite", "in-office",
}

// PhraseClassifier is a baseline remote-EU classifier built on location and
// description phrase matching.
type PhraseClassifier struct{}

func (PhraseClassifier) ClassifyRemote(_ context.Context, job db.Job) (pipeline.RemoteVerdict, error) {
	text := strings.ToLower(job.Title)
	if job.Location != nil {
		text += " " + strings.ToLower(*job.Location)
	}
	if job.Description != nil {
		text += " " + strings.ToLower(*job.Description)
	}

	for _, phrase := range restrictionPhrases {
		if strings.Contains(text, phrase) {
			return pipeline.RemoteVerdict{
				RemoteEU:   false,
				Confidence: status.ConfidenceHigh,
				Reason:     "restricted: " + phrase,
			}, nil
		}
	}

	for _, phrase := range euWidePhrases {
		if strings.Contains(text, phrase) {
			return pipeline.RemoteVerdict{
				RemoteEU:   true,
				Confidence: status.ConfidenceHigh,
				Reason:     "EU-wide remote: " + phrase,
			}, nil
		}
	}

	if strings.Contains(text, "remote") {
		for _, country := range euCountries {
			if strings.Contains(text, country) {
				return pipeline.RemoteVerdict{
					RemoteEU:   true,
					Confidence: status.ConfidenceMedium,
					Reason:     "remote role located in " + country,
				}, nil
			}
		}
		return pipeline.RemoteVerdict{
			RemoteEU:   true,
			Confidence: status.ConfidenceLow,
			Reason:     "remote with no stated region",
		}, nil
	}

	return pipeline.RemoteVerdict{
		RemoteEU:   false,
		Confidence: status.ConfidenceMedium,
		Reason:     "no remote signal",
	}, nil
}
