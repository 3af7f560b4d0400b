package adapters

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"grocery-scraper/fallback"
	"grocery-scraper/internal/types"
	"grocery-scraper/utils"
)

// fakeSession serves canned HTML per URL
type fakeSession struct {
	mu        sync.Mutex
	pages     map[string]string
	submitted map[string]string // page URL -> HTML shown after a form submit on that page
	panicOn   string
	current   string
	navigated []string
	submits   []utils.Form
	closed    int
}

func (f *fakeSession) Navigate(ctx context.Context, pageURL string) (*goquery.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if pageURL == f.panicOn {
		panic("renderer crashed")
	}
	f.navigated = append(f.navigated, pageURL)
	html, ok := f.pages[pageURL]
	if !ok {
		return nil, fmt.Errorf("%w: %s: timeout", types.ErrNavigation, pageURL)
	}
	f.current = pageURL
	return utils.ParseDocument(html, pageURL)
}

func (f *fakeSession) Submit(ctx context.Context, form utils.Form) (*goquery.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.submits = append(f.submits, form)
	html, ok := f.submitted[f.current]
	if !ok {
		return nil, fmt.Errorf("no form input matched %v", form.Inputs)
	}
	return utils.ParseDocument(html, f.current)
}

func (f *fakeSession) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

// fakeFactory counts opened sessions and always hands out the same fake
type fakeFactory struct {
	session *fakeSession
	err     error
	opened  int
}

func (f *fakeFactory) open(ctx context.Context) (utils.Session, error) {
	f.opened++
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

type fixedRandom int

func (r fixedRandom) Intn(n int) int { return int(r) % n }

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testDeps(factory *fakeFactory, mutate ...func(*types.Config)) Deps {
	config := types.DefaultConfig()
	for _, m := range mutate {
		m(config)
	}
	return Deps{
		Config:   config,
		Logger:   quietLogger(),
		Sessions: factory.open,
		Fallback: fallback.NewProvider(fixedRandom(0)),
	}
}
