package spider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"bookscout/internal/fetch"
	"bookscout/internal/metadata"
	"bookscout/internal/models"
	"bookscout/internal/queue"
	"bookscout/internal/scrapper"
)

const homePage = `<html><body>
<a href="/ksiazka/diuna">Diuna</a>
<a href="/recenzja/diuna-1">Recenzja: Diuna</a>
<a href="/o-nas">O nas</a>
<a href="https://other.example/ksiazka/obca">elsewhere</a>
<a href="mailto:kontakt@example.pl">napisz</a>
<a href="#top">top</a>
</body></html>`

const bookPage = `<html><body>
<h1 class="product-title">Diuna</h1>
<div class="product-authors"><a href="/autor/frank-herbert">Frank Herbert</a></div>
<div class="product-buy" data-product-id="8412">49,90 zł</div>
</body></html>`

const reviewPage = `<html><body><div class="review">
<h2 class="review-title">Diuna</h2>
<div class="review-body">Warto.</div>
</div></body></html>`

type captureSaver struct {
	records []*models.CandidateRecord
}

func (c *captureSaver) SaveCandidate(_ context.Context, _ models.Website, record *models.CandidateRecord) error {
	c.records = append(c.records, record)
	return nil
}

func testSite(t *testing.T) (*httptest.Server, *scrapper.Group, *fetch.Client) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(homePage))
	})
	mux.HandleFunc("/ksiazka/diuna", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(bookPage))
	})
	mux.HandleFunc("/recenzja/diuna-1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(reviewPage))
	})
	mux.HandleFunc("/autor/frank-herbert", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><h1 class="author-name">Frank Herbert</h1></body></html>`))
	})
	mux.HandleFunc("/o-nas", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>Sklep.</p></body></html>"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := fetch.NewClient(srv.Client(), "", nil)
	group, err := scrapper.NewShopGroup(client, scrapper.ShopConfig{
		Name:          "testshop",
		HomepageURL:   srv.URL,
		SearchURL:     srv.URL + "/szukaj",
		BookPath:      "/ksiazka/",
		AuthorPath:    "/autor/",
		PublisherPath: "/wydawnictwo/",
		ReviewPath:    "/recenzja/",
	})
	if err != nil {
		t.Fatalf("NewShopGroup: %v", err)
	}
	return srv, group, client
}

func TestRunSeedsAndCrawls(t *testing.T) {
	srv, group, client := testSite(t)
	frontier := queue.NewMemory()
	meta := metadata.NewMemory()
	saver := &captureSaver{}

	s, err := New(group, Config{Queue: frontier, Metadata: meta, Client: client, Saver: saver})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	website, _ := frontier.FindOrCreateWebsite(context.Background(), srv.URL)

	sum, err := s.Run(context.Background(), website)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Analyzed != 5 {
		t.Fatalf("analyzed = %d, want 5 (home, book, review, author, about)", sum.Analyzed)
	}
	if sum.Errored != 0 || sum.Skipped != 0 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if len(saver.records) != 3 {
		t.Fatalf("saved %d candidates, want book, review and author", len(saver.records))
	}
	// Higher-priority items are matched first: book, then review, then author.
	if saver.records[0].Kind != models.KindBook ||
		saver.records[1].Kind != models.KindBookReview ||
		saver.records[2].Kind != models.KindBookAuthor {
		t.Fatalf("candidate order = %s, %s, %s",
			saver.records[0].Kind, saver.records[1].Kind, saver.records[2].Kind)
	}
	if saver.records[0].RemoteID != "/ksiazka/diuna" {
		t.Fatalf("book remote id = %q", saver.records[0].RemoteID)
	}
}

func TestRunFetchesEachPageOnce(t *testing.T) {
	var mu sync.Mutex
	hits := make(map[string]int)
	srv, _, _ := testSite(t)
	counted := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits[r.URL.Path]++
		mu.Unlock()
		srv.Config.Handler.ServeHTTP(w, r)
	}))
	t.Cleanup(counted.Close)

	client := fetch.NewClient(counted.Client(), "", nil)
	group, err := scrapper.NewShopGroup(client, scrapper.ShopConfig{
		Name:        "testshop",
		HomepageURL: counted.URL,
		SearchURL:   counted.URL + "/szukaj",
		BookPath:    "/ksiazka/",
		ReviewPath:  "/recenzja/",
		AuthorPath:  "/autor/",
	})
	if err != nil {
		t.Fatalf("NewShopGroup: %v", err)
	}

	frontier := queue.NewMemory()
	s, err := New(group, Config{Queue: frontier, Client: client, Saver: &captureSaver{}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	website, _ := frontier.FindOrCreateWebsite(context.Background(), counted.URL)
	if _, err := s.Run(context.Background(), website); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Analysis reuses the page the crawl fetched; a second request per item
	// would double the load on the site.
	mu.Lock()
	defer mu.Unlock()
	for path, n := range hits {
		if n != 1 {
			t.Fatalf("%s fetched %d times, want 1", path, n)
		}
	}
	if hits["/ksiazka/diuna"] != 1 {
		t.Fatal("book page was never fetched")
	}
}

func TestRunIgnoresOffsiteAndNonHTTPLinks(t *testing.T) {
	srv, group, client := testSite(t)
	frontier := queue.NewMemory()

	s, err := New(group, Config{Queue: frontier, Client: client, MaxIterations: 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	website, _ := frontier.FindOrCreateWebsite(context.Background(), srv.URL)

	if _, err := s.Run(context.Background(), website); err != nil {
		t.Fatalf("Run: %v", err)
	}
	// Budget of 2: seed iteration plus the homepage fetch. The frontier must
	// hold exactly the three on-site links and the root.
	for _, path := range []string{"/ksiazka/diuna", "/recenzja/diuna-1", "/o-nas", "/"} {
		added, err := frontier.Enqueue(context.Background(), website, models.CrawlerLink{Path: path})
		if err != nil {
			t.Fatalf("Enqueue probe: %v", err)
		}
		if added {
			t.Fatalf("expected %s to already be on the frontier", path)
		}
	}
	if added, _ := frontier.Enqueue(context.Background(), website, models.CrawlerLink{Path: "/ksiazka/obca"}); !added {
		t.Fatal("offsite link must not have been enqueued")
	}
}

type recordingQueue struct {
	*queue.Memory
	links []models.CrawlerLink
}

func (r *recordingQueue) Enqueue(ctx context.Context, website models.Website, link models.CrawlerLink) (bool, error) {
	r.links = append(r.links, link)
	return r.Memory.Enqueue(ctx, website, link)
}

func TestRunWalksListingsForward(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><a href="/katalog/fantastyka">Fantastyka</a></body></html>`))
	})
	mux.HandleFunc("/katalog/fantastyka", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
<a href="/ksiazka/diuna">Diuna</a>
<a href="/katalog/fantastyka/2" rel="next">następna</a>
<a href="/katalog/horror">Horror</a>
</body></html>`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := fetch.NewClient(srv.Client(), "", nil)
	group, err := scrapper.NewShopGroup(client, scrapper.ShopConfig{
		Name:           "testshop",
		HomepageURL:    srv.URL,
		SearchURL:      srv.URL + "/szukaj",
		BookPath:       "/ksiazka/",
		PaginationPath: "/katalog/",
	})
	if err != nil {
		t.Fatalf("NewShopGroup: %v", err)
	}

	frontier := &recordingQueue{Memory: queue.NewMemory()}
	s, err := New(group, Config{Queue: frontier, Client: client, MaxIterations: 3})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	website, _ := frontier.FindOrCreateWebsite(context.Background(), srv.URL)
	if _, err := s.Run(context.Background(), website); err != nil {
		t.Fatalf("Run: %v", err)
	}

	priorities := make(map[string]int)
	for _, link := range frontier.links {
		priorities[link.Path] = link.Priority
	}
	// The rel=next link outranks sibling listings; books still come first.
	if priorities["/katalog/fantastyka/2"] != 6 {
		t.Fatalf("next-page priority = %d, want 6", priorities["/katalog/fantastyka/2"])
	}
	if priorities["/katalog/horror"] != 5 {
		t.Fatalf("listing priority = %d, want 5", priorities["/katalog/horror"])
	}
	if priorities["/ksiazka/diuna"] != 7 {
		t.Fatalf("book priority = %d, want 7", priorities["/ksiazka/diuna"])
	}
}

func TestRunSkipsKnownRemoteIDs(t *testing.T) {
	srv, group, client := testSite(t)
	frontier := queue.NewMemory()
	meta := metadata.NewMemory()
	saver := &captureSaver{}

	website, _ := frontier.FindOrCreateWebsite(context.Background(), srv.URL)
	if err := meta.Save(context.Background(), models.ScrapperMetadata{
		WebsiteID: website.ID,
		RemoteID:  "/ksiazka/diuna",
		Kind:      models.KindBook,
		Status:    models.MetadataProcessed,
	}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	s, err := New(group, Config{Queue: frontier, Metadata: meta, Client: client, Saver: saver})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sum, err := s.Run(context.Background(), website)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Skipped != 1 {
		t.Fatalf("skipped = %d, want 1", sum.Skipped)
	}
	for _, record := range saver.records {
		if record.Kind == models.KindBook {
			t.Fatal("known book must not be matched again")
		}
	}
}

func TestRunMarksFetchFailures(t *testing.T) {
	srv, group, client := testSite(t)
	frontier := queue.NewMemory()

	website, _ := frontier.FindOrCreateWebsite(context.Background(), srv.URL)
	frontier.Seed(website, models.CrawlerLink{Path: "/ksiazka/zaginiona", Kind: models.KindBook, Priority: 7}, models.QueueItemNew)

	s, err := New(group, Config{Queue: frontier, Client: client, MaxIterations: 3})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sum, err := s.Run(context.Background(), website)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Errored != 1 {
		t.Fatalf("errored = %d, want 1", sum.Errored)
	}

	// The errored item stays out of the frontier: a fresh run must not pop it.
	sum, err = s.Run(context.Background(), website)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if sum.Errored != 0 {
		t.Fatalf("errored item was retried: %+v", sum)
	}
}

func TestRunResumesClaimOnlyNewItems(t *testing.T) {
	srv, group, client := testSite(t)
	frontier := queue.NewMemory()
	saver := &captureSaver{}

	website, _ := frontier.FindOrCreateWebsite(context.Background(), srv.URL)
	frontier.Seed(website, models.CrawlerLink{Path: "/", Kind: models.KindURL}, models.QueueItemAnalyzed)
	frontier.Seed(website, models.CrawlerLink{Path: "/recenzja/diuna-1", Kind: models.KindBookReview, Priority: 3}, models.QueueItemNew)

	s, err := New(group, Config{Queue: frontier, Client: client, Saver: saver, MaxIterations: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sum, err := s.Run(context.Background(), website)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Analyzed != 1 {
		t.Fatalf("analyzed = %d, want only the pending review", sum.Analyzed)
	}
	if len(saver.records) != 1 || saver.records[0].Kind != models.KindBookReview {
		t.Fatalf("unexpected candidates: %+v", saver.records)
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	srv, group, client := testSite(t)
	frontier := queue.NewMemory()

	website, _ := frontier.FindOrCreateWebsite(context.Background(), srv.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := New(group, Config{Queue: frontier, Client: client})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := s.Run(ctx, website); err == nil {
		t.Fatal("expected a cancellation error")
	}
}

func TestNewRejectsMissingCollaborators(t *testing.T) {
	_, group, client := testSite(t)
	if _, err := New(nil, Config{Queue: queue.NewMemory(), Client: client}); err == nil {
		t.Fatal("expected error for nil group")
	}
	if _, err := New(group, Config{Client: client}); err == nil {
		t.Fatal("expected error for nil queue")
	}
	if _, err := New(group, Config{Queue: queue.NewMemory()}); err == nil {
		t.Fatal("expected error for nil client")
	}
}
