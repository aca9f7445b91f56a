package domain

import (
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
)

// IdentityProfile is the single live profile document of a user.
type IdentityProfile struct {
	UserID uuid.UUID `json:"user_id"`
	ProfileDocument
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfileDocument holds the three top-level sections. It is the unit that is
// persisted as profile_data and snapshotted into history.
type ProfileDocument struct {
	Biographical       Biographical       `json:"biographical"`
	PersonalityProfile PersonalityProfile `json:"personality_profile"`
	Meta               ProfileMeta        `json:"meta"`
}

// Biographical is a flat set of self-reported facts.
type Biographical struct {
	Name                 *string  `json:"name"`
	PreferredName        *string  `json:"preferred_name"`
	Pronouns             *string  `json:"pronouns"`
	Age                  *int     `json:"age"`
	Location             *string  `json:"location"`
	CulturalBackground   *string  `json:"cultural_background"`
	SpiritualOrientation *string  `json:"spiritual_orientation"`
	EducationLevel       *string  `json:"education_level"`
	Occupation           *string  `json:"occupation"`
	IdentityLabels       []string `json:"identity_labels"`
}

type PersonalityProfile struct {
	BigFive                 BigFive             `json:"big_five"`
	CognitiveStyle          CognitiveStyle      `json:"cognitive_style"`
	EmotionalRegulation     EmotionalRegulation `json:"emotional_regulation"`
	AttachmentStyle         *string             `json:"attachment_style"`
	LocusOfControl          *string             `json:"locus_of_control"`
	MotivationalOrientation []string            `json:"motivational_orientation"`
	SelfConcept             SelfConcept         `json:"self_concept"`
}

// BigFive scores are in [0,1] when set.
type BigFive struct {
	Openness          *float64 `json:"openness"`
	Conscientiousness *float64 `json:"conscientiousness"`
	Extraversion      *float64 `json:"extraversion"`
	Agreeableness     *float64 `json:"agreeableness"`
	Neuroticism       *float64 `json:"neuroticism"`
}

type CognitiveStyle struct {
	ThinkingMode     *string `json:"thinking_mode"`
	DecisionMaking   *string `json:"decision_making"`
	ResponseTendency *string `json:"response_tendency"`
}

type EmotionalRegulation struct {
	Expression  *string  `json:"expression"`
	CopingStyle *string  `json:"coping_style"`
	Volatility  *float64 `json:"volatility"`
}

type SelfConcept struct {
	SelfEsteem        *string  `json:"self_esteem"`
	IdentityCoherence *string  `json:"identity_coherence"`
	CoreNarratives    []string `json:"core_narratives"`
}

// ProfileMeta is bookkeeping maintained by the system, never edited by users.
type ProfileMeta struct {
	ConfidenceLevels map[string]*float64 `json:"confidence_levels"`
	InferenceSources []string            `json:"inference_sources"`
	LastUpdated      *time.Time          `json:"last_updated"`
}

// Traits that carry an inference confidence in a fresh profile.
var defaultConfidenceTraits = []string{"big_five", "attachment_style", "motivational_orientation"}

// DefaultProfileDocument returns the onboarding shape: every field empty or null.
func DefaultProfileDocument() ProfileDocument {
	levels := make(map[string]*float64, len(defaultConfidenceTraits))
	for _, trait := range defaultConfidenceTraits {
		levels[trait] = nil
	}

	return ProfileDocument{
		Biographical: Biographical{IdentityLabels: []string{}},
		PersonalityProfile: PersonalityProfile{
			MotivationalOrientation: []string{},
			SelfConcept:             SelfConcept{CoreNarratives: []string{}},
		},
		Meta: ProfileMeta{
			ConfidenceLevels: levels,
			InferenceSources: []string{},
		},
	}
}

// NewIdentityProfile creates a default profile for a user.
func NewIdentityProfile(userID uuid.UUID, now time.Time) *IdentityProfile {
	return &IdentityProfile{
		UserID:          userID,
		ProfileDocument: DefaultProfileDocument(),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Canonicalize replaces nil lists and maps with empty ones so that absent
// and empty collections serialize and compare identically.
func (d *ProfileDocument) Canonicalize() {
	if d.Biographical.IdentityLabels == nil {
		d.Biographical.IdentityLabels = []string{}
	}
	if d.PersonalityProfile.MotivationalOrientation == nil {
		d.PersonalityProfile.MotivationalOrientation = []string{}
	}
	if d.PersonalityProfile.SelfConcept.CoreNarratives == nil {
		d.PersonalityProfile.SelfConcept.CoreNarratives = []string{}
	}
	if d.Meta.ConfidenceLevels == nil {
		d.Meta.ConfidenceLevels = map[string]*float64{}
	}
	if d.Meta.InferenceSources == nil {
		d.Meta.InferenceSources = []string{}
	}
}

// Clone returns a deep copy of the document.
func (d ProfileDocument) Clone() ProfileDocument {
	out := d
	out.Biographical = d.Biographical.clone()
	out.PersonalityProfile = d.PersonalityProfile.clone()
	out.Meta = d.Meta.clone()
	return out
}

// Clone returns a deep copy of the profile.
func (p *IdentityProfile) Clone() *IdentityProfile {
	if p == nil {
		return nil
	}
	out := *p
	out.ProfileDocument = p.ProfileDocument.Clone()
	return &out
}

func (b Biographical) clone() Biographical {
	return Biographical{
		Name:                 clonePtr(b.Name),
		PreferredName:        clonePtr(b.PreferredName),
		Pronouns:             clonePtr(b.Pronouns),
		Age:                  clonePtr(b.Age),
		Location:             clonePtr(b.Location),
		CulturalBackground:   clonePtr(b.CulturalBackground),
		SpiritualOrientation: clonePtr(b.SpiritualOrientation),
		EducationLevel:       clonePtr(b.EducationLevel),
		Occupation:           clonePtr(b.Occupation),
		IdentityLabels:       slices.Clone(b.IdentityLabels),
	}
}

func (p PersonalityProfile) clone() PersonalityProfile {
	return PersonalityProfile{
		BigFive: BigFive{
			Openness:          clonePtr(p.BigFive.Openness),
			Conscientiousness: clonePtr(p.BigFive.Conscientiousness),
			Extraversion:      clonePtr(p.BigFive.Extraversion),
			Agreeableness:     clonePtr(p.BigFive.Agreeableness),
			Neuroticism:       clonePtr(p.BigFive.Neuroticism),
		},
		CognitiveStyle: CognitiveStyle{
			ThinkingMode:     clonePtr(p.CognitiveStyle.ThinkingMode),
			DecisionMaking:   clonePtr(p.CognitiveStyle.DecisionMaking),
			ResponseTendency: clonePtr(p.CognitiveStyle.ResponseTendency),
		},
		EmotionalRegulation: EmotionalRegulation{
			Expression:  clonePtr(p.EmotionalRegulation.Expression),
			CopingStyle: clonePtr(p.EmotionalRegulation.CopingStyle),
			Volatility:  clonePtr(p.EmotionalRegulation.Volatility),
		},
		AttachmentStyle:         clonePtr(p.AttachmentStyle),
		LocusOfControl:          clonePtr(p.LocusOfControl),
		MotivationalOrientation: slices.Clone(p.MotivationalOrientation),
		SelfConcept: SelfConcept{
			SelfEsteem:        clonePtr(p.SelfConcept.SelfEsteem),
			IdentityCoherence: clonePtr(p.SelfConcept.IdentityCoherence),
			CoreNarratives:    slices.Clone(p.SelfConcept.CoreNarratives),
		},
	}
}

func (m ProfileMeta) clone() ProfileMeta {
	out := ProfileMeta{
		InferenceSources: slices.Clone(m.InferenceSources),
		LastUpdated:      clonePtr(m.LastUpdated),
	}
	if m.ConfidenceLevels != nil {
		out.ConfidenceLevels = make(map[string]*float64, len(m.ConfidenceLevels))
		for k, v := range m.ConfidenceLevels {
			out.ConfidenceLevels[k] = clonePtr(v)
		}
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Validate checks value ranges of a document. Unknown enum-like strings are
// accepted as-is.
func (d ProfileDocument) Validate() error {
	var errs []FieldError

	if age := d.Biographical.Age; age != nil && (*age < 0 || *age > 150) {
		errs = append(errs, FieldError{Field: "biographical.age", Message: "must be between 0 and 150"})
	}

	bf := d.PersonalityProfile.BigFive
	scores := []struct {
		field string
		value *float64
	}{
		{"personality_profile.big_five.openness", bf.Openness},
		{"personality_profile.big_five.conscientiousness", bf.Conscientiousness},
		{"personality_profile.big_five.extraversion", bf.Extraversion},
		{"personality_profile.big_five.agreeableness", bf.Agreeableness},
		{"personality_profile.big_five.neuroticism", bf.Neuroticism},
		{"personality_profile.emotional_regulation.volatility", d.PersonalityProfile.EmotionalRegulation.Volatility},
	}
	for _, s := range scores {
		if s.value != nil && (*s.value < 0 || *s.value > 1) {
			errs = append(errs, FieldError{Field: s.field, Message: "must be between 0 and 1"})
		}
	}

	for _, trait := range slices.Sorted(maps.Keys(d.Meta.ConfidenceLevels)) {
		if v := d.Meta.ConfidenceLevels[trait]; v != nil && (*v < 0 || *v > 1) {
			errs = append(errs, FieldError{Field: "meta.confidence_levels." + trait, Message: "must be between 0 and 1"})
		}
	}

	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}
