package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cucumber/godog"

	"github.com/custodia-labs/course-qa/internal/core/domain"
	"github.com/custodia-labs/course-qa/internal/core/ports/driven"
	"github.com/custodia-labs/course-qa/internal/core/ports/driven/mocks"
	"github.com/custodia-labs/course-qa/internal/normalisers"
)

// questionWorld is the per-scenario state for the Gherkin features
type questionWorld struct {
	snapshot *domain.KnowledgeSnapshot
	strategy driven.AnswerStrategy
	response *domain.AnswerResponse
	health   *domain.HealthReport
	err      error
}

func (w *questionWorld) service() *questionService {
	svc := NewQuestionService(QuestionServiceConfig{
		Store:      mocks.NewMockSnapshotStore(w.snapshot),
		Normaliser: normalisers.NewResourceNormaliser(),
		Strategy:   w.strategy,
		Settings:   domain.DefaultMatchSettings(),
	})
	return svc.(*questionService)
}

func (w *questionWorld) aForumPostTagged(title, tag string) error {
	w.snapshot.DiscoursePosts = append(w.snapshot.DiscoursePosts, domain.DiscoursePost{
		Title: title,
		URL:   fmt.Sprintf("https://discourse.example.org/t/%d", len(w.snapshot.DiscoursePosts)),
		Tags:  []string{tag},
	})
	return nil
}

func (w *questionWorld) aCourseWeekWith(week, typ, title string) error {
	w.snapshot.AddWeek(week, domain.CourseResource{
		Title: title,
		URL:   "https://course.example.org/#/" + title,
		Type:  domain.ResourceType(typ),
	})
	return nil
}

func (w *questionWorld) forumPostsAbout(n int, topic string) error {
	for i := 0; i < n; i++ {
		if err := w.aForumPostTagged(fmt.Sprintf("%s question %d", topic, i), topic); err != nil {
			return err
		}
	}
	return nil
}

func (w *questionWorld) failingAnswerService() error {
	llm := mocks.NewMockLLMService("")
	llm.CompleteFn = func(ctx context.Context, system, user string) (string, error) {
		return "", errors.New("service unavailable")
	}
	w.strategy = NewLLMStrategy(LLMStrategyConfig{LLM: llm})
	return nil
}

func (w *questionWorld) snapshotMissing() error {
	w.snapshot = nil
	return nil
}

func (w *questionWorld) iAsk(question string) error {
	w.response, w.err = w.service().Answer(context.Background(), domain.QuestionRequest{Question: question})
	return w.err
}

func (w *questionWorld) iCheckHealth() error {
	w.health = w.service().Health(context.Background())
	return nil
}

func (w *questionWorld) iGetLinks(n int) error {
	if got := len(w.response.Links); got != n {
		return fmt.Errorf("expected %d links, got %d", n, got)
	}
	return nil
}

func (w *questionWorld) linkHasTitle(i int, title string) error {
	if i < 1 || i > len(w.response.Links) {
		return fmt.Errorf("no link %d among %d", i, len(w.response.Links))
	}
	if got := w.response.Links[i-1].Title; got != title {
		return fmt.Errorf("link %d: expected title %q, got %q", i, title, got)
	}
	return nil
}

func (w *questionWorld) linkComesFrom(i int, source, week string) error {
	if i < 1 || i > len(w.response.Links) {
		return fmt.Errorf("no link %d among %d", i, len(w.response.Links))
	}
	link := w.response.Links[i-1]
	if string(link.Source) != source || link.Week != week {
		return fmt.Errorf("link %d: expected %s/%s, got %s/%s", i, source, week, link.Source, link.Week)
	}
	return nil
}

func (w *questionWorld) answerIs(answer string) error {
	if w.response.Answer != answer {
		return fmt.Errorf("expected answer %q, got %q", answer, w.response.Answer)
	}
	return nil
}

func (w *questionWorld) answerIsFallback() error {
	return w.answerIs(FallbackAnswer)
}

func (w *questionWorld) statusIs(status string) error {
	if string(w.health.Status) != status {
		return fmt.Errorf("expected status %q, got %q", status, w.health.Status)
	}
	return nil
}

func initializeQuestionScenario(sc *godog.ScenarioContext) {
	w := &questionWorld{}

	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		*w = questionWorld{snapshot: domain.NewKnowledgeSnapshot(), strategy: NewSummaryStrategy()}
		return ctx, nil
	})

	sc.Step(`^a forum post "([^"]*)" tagged "([^"]*)"$`, w.aForumPostTagged)
	sc.Step(`^a course week "([^"]*)" with a "([^"]*)" titled "([^"]*)"$`, w.aCourseWeekWith)
	sc.Step(`^(\d+) forum posts about "([^"]*)"$`, w.forumPostsAbout)
	sc.Step(`^answers are generated by a failing service$`, w.failingAnswerService)
	sc.Step(`^the snapshot is missing$`, w.snapshotMissing)
	sc.Step(`^I ask "([^"]*)"$`, w.iAsk)
	sc.Step(`^I check health$`, w.iCheckHealth)
	sc.Step(`^I get (\d+) links?$`, w.iGetLinks)
	sc.Step(`^link (\d+) has title "([^"]*)"$`, w.linkHasTitle)
	sc.Step(`^link (\d+) comes from "([^"]*)" in week "([^"]*)"$`, w.linkComesFrom)
	sc.Step(`^the answer is "([^"]*)"$`, w.answerIs)
	sc.Step(`^the answer is the fallback answer$`, w.answerIsFallback)
	sc.Step(`^the status is "([^"]*)"$`, w.statusIs)
}

func TestQuestionFeatures(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "question",
		ScenarioInitializer: initializeQuestionScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
			Strict:   true,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("question features failed")
	}
}
