package ai

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

// PlanDraft is one candidate plan extracted from free-form text.
type PlanDraft struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	ScheduledTime string `json:"scheduled_time"`
	ScoreValue    int    `json:"score_value"`
	ForTomorrow   bool   `json:"for_tomorrow"`
}

// DefaultScoreValue is used when the model leaves score_value unset.
const DefaultScoreValue = 5

// Extractor turns free text into plan candidates and time phrases into
// absolute wall-clock times. Callers mock this in tests.
type Extractor interface {
	// ExtractPlans returns an ordered candidate list. Malformed model
	// output yields an empty list, not an error.
	ExtractPlans(ctx context.Context, text string, now time.Time) ([]PlanDraft, error)
	// ResolveTime returns "HH:MM" or "" when the phrase cannot be resolved.
	ResolveTime(ctx context.Context, text string, now time.Time) (string, error)
}

// Transcriber converts voice recordings into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// ValidClock reports whether a string is a well-formed "HH:MM" time.
func ValidClock(s string) bool {
	return clockPattern.MatchString(s)
}

// PlanExtractor implements Extractor on top of a chat-completion Client.
// Titles are expected in Uzbek Latin script; a Cyrillic title triggers one
// corrective translation call per draft.
type PlanExtractor struct {
	client *Client
	log    *zap.Logger
}

func NewPlanExtractor(client *Client, log *zap.Logger) *PlanExtractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &PlanExtractor{client: client, log: log}
}

const extractSystemPrompt = `Sen tarjima va reja yordamchisisiz.

QOIDALAR:
1. Matn QAYSI TILDA bo'lmasin (o'zbek, turk, qozoq, rus, ingliz) - sen DOIM o'zbek tilida javob berasan
2. Agar matn o'zbek tilida emas bo'lsa - MA'NOSINI tushunib o'zbek tilida reja yoz
3. JSON ichidagi "title" va "description" FAQAT O'ZBEK TILIDA bo'lishi SHART
4. Faqat JSON qaytar, boshqa hech narsa yozma`

const translateSystemPrompt = `Sen tarjimonsan. Faqat o'zbek tilida javob ber.`

const timeSystemPrompt = `Sen vaqt aniqlash assistantisan. Faqat HH:MM formatda javob ber.`

func extractUserPrompt(text string, now time.Time) string {
	return fmt.Sprintf(`Hozirgi vaqt: %s

Quyidagi matndan kunlik rejalarni topib, O'ZBEK TILIDA JSON qaytar.

MUHIM:
- Matn turk, qozoq, rus yoki boshqa tilda bo'lsa ham - title FAQAT O'ZBEK TILIDA
- Masalan: "уйқудан турамын" → title: "Uyg'onish" yoki "Erta turish"
- Masalan: "spor yapacağım" → title: "Sport qilish"
- Masalan: "read a book" → title: "Kitob o'qish"

Vaqt hisoblash:
- Aniq vaqt: "9 da" → "09:00"
- "10 minutdan keyin" → "%s"
- "30 minutdan so'ng" → "%s"
- Vaqt yo'q → null

Reja ertaga uchun aytilgan bo'lsa ("ertaga", "ertalabga") - "for_tomorrow": true, aks holda false.

JSON format:
{
  "plans": [
    {
      "title": "O'ZBEK TILIDA sarlavha (masalan: Erta turish, Sport qilish, Kitob o'qish)",
      "description": null,
      "scheduled_time": "HH:MM yoki null",
      "score_value": 5,
      "for_tomorrow": false
    }
  ]
}

Matn: "%s"

ESLATMA: Title mutlaqo o'zbek tilida bo'lishi kerak!`,
		now.Format("15:04"),
		now.Add(10*time.Minute).Format("15:04"),
		now.Add(30*time.Minute).Format("15:04"),
		text)
}

func timeUserPrompt(text string, now time.Time) string {
	return fmt.Sprintf(`Hozirgi vaqt: %s

Foydalanuvchi vaqt aytdi. Faqat vaqtni HH:MM formatda chiqar.

MISOLLAR:
"soat 15 da" → 15:00
"soat 10:43" → 10:43
"15:00" → 15:00
"10 da" → 10:00
"30 minutdan keyin" → %s
"1 soatdan so'ng" → %s
"yarim soatdan keyin" → %s

FAQAT HH:MM formatda javob ber (masalan: 15:00), boshqa hech narsa yozma.

Matn: "%s"`,
		now.Format("15:04"),
		now.Add(30*time.Minute).Format("15:04"),
		now.Add(time.Hour).Format("15:04"),
		now.Add(30*time.Minute).Format("15:04"),
		text)
}

type planList struct {
	Plans []PlanDraft `json:"plans"`
}

// ExtractPlans sends one templated prompt and post-processes the drafts:
// score defaulting, time validation and the one-shot script repair.
func (e *PlanExtractor) ExtractPlans(ctx context.Context, text string, now time.Time) ([]PlanDraft, error) {
	raw, err := e.client.Complete(ctx, extractSystemPrompt, extractUserPrompt(text, now))
	if err != nil {
		return nil, err
	}

	list, err := extractJSON[planList](raw)
	if err != nil {
		if errors.Is(err, ErrInvalidOutput) {
			e.log.Warn("unparseable extraction output", zap.String("raw", truncate(raw, 300)))
			return nil, nil
		}
		return nil, err
	}

	drafts := make([]PlanDraft, 0, len(list.Plans))
	for _, draft := range list.Plans {
		draft.Title = strings.TrimSpace(draft.Title)
		if draft.Title == "" {
			continue
		}
		if draft.ScoreValue <= 0 {
			draft.ScoreValue = DefaultScoreValue
		}
		if draft.ScheduledTime != "" && !ValidClock(draft.ScheduledTime) {
			draft.ScheduledTime = ""
		}
		if ClassifyScript(draft.Title) == ScriptCyrillic {
			draft.Title = e.repairTitle(ctx, draft.Title)
		}
		drafts = append(drafts, draft)
	}
	return drafts, nil
}

// repairTitle asks for a translation exactly once; on any failure the
// original title is kept.
func (e *PlanExtractor) repairTitle(ctx context.Context, title string) string {
	prompt := fmt.Sprintf("Bu matnni o'zbek tiliga tarjima qil (faqat tarjimani yoz, boshqa hech narsa): '%s'", title)
	translated, err := e.client.Complete(ctx, translateSystemPrompt, prompt)
	if err != nil {
		e.log.Warn("title repair failed", zap.String("title", title), zap.Error(err))
		return title
	}
	translated = strings.Trim(strings.TrimSpace(translated), `'"`)
	if translated == "" {
		return title
	}
	e.log.Info("title repaired", zap.String("from", title), zap.String("to", translated))
	return translated
}

// ResolveTime extracts a single wall-clock time from a phrase. Relative
// offsets are computed against the instant passed in, so tests stay
// deterministic. Any reply not shaped like HH:MM counts as unresolved.
func (e *PlanExtractor) ResolveTime(ctx context.Context, text string, now time.Time) (string, error) {
	raw, err := e.client.Complete(ctx, timeSystemPrompt, timeUserPrompt(text, now))
	if err != nil {
		return "", err
	}
	result := strings.TrimSpace(raw)
	if !ValidClock(result) {
		return "", nil
	}
	return result, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
