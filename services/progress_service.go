package services

import (
	"math"
	"time"

	"github.com/jinzhu/now"

	"github.com/mohamedamineameur/comptia/models"
	"github.com/mohamedamineameur/comptia/repositories"
	"github.com/mohamedamineameur/comptia/utils"
)

// DefaultDailyStatsDays is the daily-stats window size
const DefaultDailyStatsDays = 7

// DefaultWeakAreaLimit is how many weak areas are surfaced
const DefaultWeakAreaLimit = 3

// Summary aggregates a user's answer history and mastery rows
type Summary struct {
	Answered       int64 `json:"answered"`
	Correct        int64 `json:"correct"`
	Accuracy       int   `json:"accuracy"`
	AverageMastery int   `json:"averageMastery"`
	Streak         int   `json:"streak"`
}

// SubObjectiveProgress is one mastery row joined with its catalog node
type SubObjectiveProgress struct {
	SubObjectiveID   uint      `json:"subObjectiveId"`
	SubObjectiveCode string    `json:"subObjectiveCode"`
	Title            string    `json:"title"`
	MasteryScore     int       `json:"masteryScore"`
	Streak           int       `json:"streak"`
	LastActivityAt   time.Time `json:"lastActivityAt"`
}

// DomainProgress is mastery averaged over a domain's sub-objectives
type DomainProgress struct {
	DomainCode   string `json:"domainCode"`
	Name         string `json:"name"`
	MasteryScore int    `json:"masteryScore"`
}

// DailyStat is one calendar-day bucket of answer activity
type DailyStat struct {
	Day      string `json:"day"`
	Answered int    `json:"answered"`
	Correct  int    `json:"correct"`
}

// WeakArea is a low-mastery sub-objective
type WeakArea struct {
	SubObjectiveID   uint   `json:"subObjectiveId"`
	SubObjectiveCode string `json:"subObjectiveCode"`
	Title            string `json:"title"`
	MasteryScore     int    `json:"masteryScore"`
}

// Recommendation is the next-best sub-objective to work on
type Recommendation struct {
	SubObjectiveID   uint   `json:"subObjectiveId"`
	SubObjectiveCode string `json:"subObjectiveCode"`
	Title            string `json:"title"`
	Rationale        string `json:"rationale"`
}

// Dashboard bundles every progress view in one payload
type Dashboard struct {
	Summary        Summary                `json:"summary"`
	ByDomain       []DomainProgress       `json:"byDomain"`
	BySubObjective []SubObjectiveProgress `json:"bySubObjective"`
	Daily          []DailyStat            `json:"daily"`
	WeakAreas      []WeakArea             `json:"weakAreas"`
	NextBest       *Recommendation        `json:"nextBest"`
}

// ProgressService derives read-only progress views from answers and mastery
type ProgressService struct {
	repo repositories.ProgressRepository
}

// NewProgressService wires the progress service
func NewProgressService(repo repositories.ProgressRepository) *ProgressService {
	return &ProgressService{repo: repo}
}

// GetSummary returns overall counts, accuracy, mean mastery and best streak
func (s *ProgressService) GetSummary(userID uint) (*Summary, error) {
	answered, correct, err := s.repo.AnswerCounts(userID)
	if err != nil {
		return nil, err
	}

	accuracy := 0
	if answered > 0 {
		accuracy = int(math.Round(float64(correct) / float64(answered) * 100))
	}

	masteryRows, err := s.repo.MasteryRows(userID)
	if err != nil {
		return nil, err
	}

	averageMastery := 0
	maxStreak := 0
	if len(masteryRows) > 0 {
		sum := 0
		for _, row := range masteryRows {
			sum += row.MasteryScore
			if row.Streak > maxStreak {
				maxStreak = row.Streak
			}
		}
		averageMastery = int(math.Round(float64(sum) / float64(len(masteryRows))))
	}

	return &Summary{
		Answered:       answered,
		Correct:        correct,
		Accuracy:       accuracy,
		AverageMastery: averageMastery,
		Streak:         maxStreak,
	}, nil
}

// GetBySubObjective lists mastery rows with localized catalog names
func (s *ProgressService) GetBySubObjective(userID uint, locale utils.Locale) ([]SubObjectiveProgress, error) {
	masteryRows, err := s.repo.MasteryRows(userID)
	if err != nil {
		return nil, err
	}

	subObjectives, err := s.subObjectivesFor(masteryRows)
	if err != nil {
		return nil, err
	}

	out := make([]SubObjectiveProgress, 0, len(masteryRows))
	for _, row := range masteryRows {
		subObjective, ok := subObjectives[row.SubObjectiveID]
		if !ok {
			continue
		}
		out = append(out, SubObjectiveProgress{
			SubObjectiveID:   subObjective.ID,
			SubObjectiveCode: subObjective.Code,
			Title:            utils.PickLocalized(subObjective.TitleEn, subObjective.TitleFr, locale, subObjective.Code),
			MasteryScore:     row.MasteryScore,
			Streak:           row.Streak,
			LastActivityAt:   row.LastActivityAt,
		})
	}
	return out, nil
}

// GetByDomain averages mastery rows up the catalog hierarchy to domains
func (s *ProgressService) GetByDomain(userID uint, locale utils.Locale) ([]DomainProgress, error) {
	masteryRows, err := s.repo.MasteryRows(userID)
	if err != nil {
		return nil, err
	}

	subObjectives, err := s.subObjectivesFor(masteryRows)
	if err != nil {
		return nil, err
	}

	objectiveIDs := make([]uint, 0, len(subObjectives))
	for _, subObjective := range subObjectives {
		objectiveIDs = append(objectiveIDs, subObjective.ObjectiveID)
	}
	objectives, err := s.repo.ObjectivesByIDs(objectiveIDs)
	if err != nil {
		return nil, err
	}

	domainIDs := make([]uint, 0, len(objectives))
	for _, objective := range objectives {
		domainIDs = append(domainIDs, objective.DomainID)
	}
	domains, err := s.repo.DomainsByIDs(domainIDs)
	if err != nil {
		return nil, err
	}

	type bucket struct {
		name  string
		total int
		count int
	}
	buckets := make(map[string]*bucket)
	order := make([]string, 0)

	for _, row := range masteryRows {
		subObjective, ok := subObjectives[row.SubObjectiveID]
		if !ok {
			continue
		}
		objective, ok := objectives[subObjective.ObjectiveID]
		if !ok {
			continue
		}
		domain, ok := domains[objective.DomainID]
		if !ok {
			continue
		}

		entry, ok := buckets[domain.Code]
		if !ok {
			entry = &bucket{name: utils.PickLocalized(domain.NameEn, domain.NameFr, locale, domain.Code)}
			buckets[domain.Code] = entry
			order = append(order, domain.Code)
		}
		entry.total += row.MasteryScore
		entry.count++
	}

	out := make([]DomainProgress, 0, len(order))
	for _, code := range order {
		entry := buckets[code]
		score := 0
		if entry.count > 0 {
			score = int(math.Round(float64(entry.total) / float64(entry.count)))
		}
		out = append(out, DomainProgress{DomainCode: code, Name: entry.name, MasteryScore: score})
	}
	return out, nil
}

// GetDailyStats buckets answers by UTC calendar day over a fixed window
// ending today, zero-filled for inactive days
func (s *ProgressService) GetDailyStats(userID uint, days int) ([]DailyStat, error) {
	if days <= 0 {
		days = DefaultDailyStatsDays
	}

	today := now.New(time.Now().UTC()).BeginningOfDay()
	from := today.AddDate(0, 0, -(days - 1))

	answers, err := s.repo.AnswersSince(userID, from)
	if err != nil {
		return nil, err
	}

	stats := make([]DailyStat, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		day := from.AddDate(0, 0, i).Format("2006-01-02")
		stats[i] = DailyStat{Day: day}
		index[day] = i
	}

	for _, answer := range answers {
		day := answer.AnsweredAt.UTC().Format("2006-01-02")
		i, ok := index[day]
		if !ok {
			continue
		}
		stats[i].Answered++
		if answer.IsCorrect {
			stats[i].Correct++
		}
	}
	return stats, nil
}

// GetWeakAreas lists the user's lowest-mastery sub-objectives
func (s *ProgressService) GetWeakAreas(userID uint, locale utils.Locale, limit int) ([]WeakArea, error) {
	if limit <= 0 {
		limit = DefaultWeakAreaLimit
	}

	masteryRows, err := s.repo.WeakestMastery(userID, limit)
	if err != nil {
		return nil, err
	}

	subObjectives, err := s.subObjectivesFor(masteryRows)
	if err != nil {
		return nil, err
	}

	out := make([]WeakArea, 0, len(masteryRows))
	for _, row := range masteryRows {
		subObjective, ok := subObjectives[row.SubObjectiveID]
		if !ok {
			continue
		}
		out = append(out, WeakArea{
			SubObjectiveID:   subObjective.ID,
			SubObjectiveCode: subObjective.Code,
			Title:            utils.PickLocalized(subObjective.TitleEn, subObjective.TitleFr, locale, subObjective.Code),
			MasteryScore:     row.MasteryScore,
		})
	}
	return out, nil
}

// GetNextBest recommends the weakest sub-objective, falling back to the first
// unseen question's sub-objective, or nil when neither exists
func (s *ProgressService) GetNextBest(userID uint, locale utils.Locale) (*Recommendation, error) {
	weak, err := s.GetWeakAreas(userID, locale, 1)
	if err != nil {
		return nil, err
	}
	if len(weak) > 0 {
		rationale := "Low mastery, highest impact to improve your global score."
		if locale == utils.LocaleFr {
			rationale = "Mastery faible, prioritaire pour augmenter ton score global."
		}
		return &Recommendation{
			SubObjectiveID:   weak[0].SubObjectiveID,
			SubObjectiveCode: weak[0].SubObjectiveCode,
			Title:            weak[0].Title,
			Rationale:        rationale,
		}, nil
	}

	answeredIDs, err := s.repo.AnsweredQuestionIDs(userID)
	if err != nil {
		return nil, err
	}
	unseen, err := s.repo.FirstUnseenQuestion(answeredIDs)
	if err != nil {
		return nil, err
	}
	if unseen == nil {
		return nil, nil
	}

	subObjectives, err := s.repo.SubObjectivesByIDs([]uint{unseen.SubObjectiveID})
	if err != nil {
		return nil, err
	}
	subObjective, ok := subObjectives[unseen.SubObjectiveID]
	if !ok {
		return nil, nil
	}

	rationale := "Unseen sub-objective, good candidate to progress."
	if locale == utils.LocaleFr {
		rationale = "Nouveau sous-objectif non pratique, bon candidat pour progresser."
	}
	return &Recommendation{
		SubObjectiveID:   subObjective.ID,
		SubObjectiveCode: subObjective.Code,
		Title:            utils.PickLocalized(subObjective.TitleEn, subObjective.TitleFr, locale, subObjective.Code),
		Rationale:        rationale,
	}, nil
}

// GetDashboard composes every progress view for one user
func (s *ProgressService) GetDashboard(userID uint, locale utils.Locale) (*Dashboard, error) {
	summary, err := s.GetSummary(userID)
	if err != nil {
		return nil, err
	}
	byDomain, err := s.GetByDomain(userID, locale)
	if err != nil {
		return nil, err
	}
	bySubObjective, err := s.GetBySubObjective(userID, locale)
	if err != nil {
		return nil, err
	}
	daily, err := s.GetDailyStats(userID, DefaultDailyStatsDays)
	if err != nil {
		return nil, err
	}
	weakAreas, err := s.GetWeakAreas(userID, locale, DefaultWeakAreaLimit)
	if err != nil {
		return nil, err
	}
	nextBest, err := s.GetNextBest(userID, locale)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Summary:        *summary,
		ByDomain:       byDomain,
		BySubObjective: bySubObjective,
		Daily:          daily,
		WeakAreas:      weakAreas,
		NextBest:       nextBest,
	}, nil
}

func (s *ProgressService) subObjectivesFor(rows []models.UserMastery) (map[uint]models.SubObjective, error) {
	ids := make([]uint, len(rows))
	for i, row := range rows {
		ids[i] = row.SubObjectiveID
	}
	return s.repo.SubObjectivesByIDs(ids)
}
