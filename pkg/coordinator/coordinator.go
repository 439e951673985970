// Package coordinator owns the signed-in user's remote data. Every operation
// talks to one or more remote services and publishes its result into a
// single observable cell, which readers consume through read-only views.
package coordinator

import (
	"Snack-Tracker/domain"
	"Snack-Tracker/internal/utils"
	"Snack-Tracker/internal/utils/mailing"
	"Snack-Tracker/pkg/classifier"
	"Snack-Tracker/pkg/identity"
	"Snack-Tracker/pkg/media"
	"Snack-Tracker/pkg/metrics"
	"Snack-Tracker/pkg/observable"
	"Snack-Tracker/pkg/stats"
	"Snack-Tracker/pkg/store"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2/log"
)

const backgroundTimeout = 30 * time.Second

var ErrEmptyInput = errors.New("input is empty")

type (
	Config struct {
		Identity   identity.Provider
		Store      store.Store
		Uploader   media.Uploader
		Classifier classifier.Client
		// Mailer is optional. When set, a welcome mail goes out after sign-up.
		Mailer   mailing.Mailer
		Validate *validator.Validate
		Now      func() time.Time
	}

	// pendingTotal is a daily-total increment whose consumption entry was
	// written but whose total update failed.
	pendingTotal struct {
		EntryID string
		UserID  string
		Date    string
		Kcal    int
	}

	Coordinator struct {
		identity   identity.Provider
		store      store.Store
		uploader   media.Uploader
		classifier classifier.Client
		mailer     mailing.Mailer
		validate   *validator.Validate
		now        func() time.Time

		mu      sync.Mutex
		token   string
		pending []pendingTotal

		reconcileMu sync.Mutex
		background  sync.WaitGroup

		userID   *observable.Cell[string]
		catalog  *observable.Cell[[]domain.Product]
		log      *observable.Cell[[]domain.ConsumptionEntry]
		totals   *observable.Cell[[]domain.DailyTotal]
		analysis *observable.Cell[domain.AnalysisState]
		upload   *observable.Cell[domain.UploadState]
	}
)

func New(cfg Config) *Coordinator {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	validate := cfg.Validate
	if validate == nil {
		validate = utils.NewValidator()
	}
	return &Coordinator{
		identity:   cfg.Identity,
		store:      cfg.Store,
		uploader:   cfg.Uploader,
		classifier: cfg.Classifier,
		mailer:     cfg.Mailer,
		validate:   validate,
		now:        now,
		userID:     observable.NewCell(""),
		catalog:    observable.NewCell([]domain.Product{}),
		log:        observable.NewCell([]domain.ConsumptionEntry{}),
		totals:     observable.NewCell([]domain.DailyTotal{}),
		analysis:   observable.NewCell(domain.AnalysisState{}),
		upload:     observable.NewCell(domain.UploadState{}),
	}
}

// UserIdentity is the signed-in user id, empty when signed out.
func (c *Coordinator) UserIdentity() observable.Observable[string] { return c.userID.ReadOnly() }

func (c *Coordinator) Catalog() observable.Observable[[]domain.Product] { return c.catalog.ReadOnly() }

func (c *Coordinator) ConsumptionLog() observable.Observable[[]domain.ConsumptionEntry] {
	return c.log.ReadOnly()
}

func (c *Coordinator) DailyTotals() observable.Observable[[]domain.DailyTotal] {
	return c.totals.ReadOnly()
}

func (c *Coordinator) Analysis() observable.Observable[domain.AnalysisState] {
	return c.analysis.ReadOnly()
}

func (c *Coordinator) Upload() observable.Observable[domain.UploadState] { return c.upload.ReadOnly() }

// Token is the current session token, empty when signed out.
func (c *Coordinator) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// Pending reports how many daily-total increments still wait for reconciliation.
func (c *Coordinator) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Wait blocks until background work started by the coordinator (sign-out
// revocation, welcome mail) has finished.
func (c *Coordinator) Wait() {
	c.background.Wait()
}

func (c *Coordinator) SignIn(ctx context.Context, email, password string) error {
	start := time.Now()
	session, err := c.identity.SignIn(ctx, email, password)
	metrics.Observe(metrics.ServiceIdentity, "sign_in", start, err)
	if err != nil {
		return err
	}
	c.setSession(session)
	log.Infow("user signed in", "user_id", session.UserID)
	return nil
}

func (c *Coordinator) SignUp(ctx context.Context, email, password string) error {
	start := time.Now()
	session, err := c.identity.SignUp(ctx, email, password)
	metrics.Observe(metrics.ServiceIdentity, "sign_up", start, err)
	if err != nil {
		return err
	}
	c.setSession(session)
	log.Infow("user signed up", "user_id", session.UserID)

	if c.mailer != nil {
		c.goBackground(func(context.Context) {
			if err := c.mailer.Welcome(session.Email); err != nil {
				log.Warnw("failed to send welcome mail", "user_id", session.UserID, "error", err)
			}
		})
	}
	return nil
}

// Resume restores a session from a token issued earlier.
func (c *Coordinator) Resume(ctx context.Context, token string) error {
	start := time.Now()
	userID, err := c.identity.Current(ctx, token)
	metrics.Observe(metrics.ServiceIdentity, "current", start, err)
	if err != nil {
		return err
	}
	c.setSession(domain.Session{UserID: userID, Token: token})
	return nil
}

// Authorize resolves token to its user. With nobody signed in the token's
// session is resumed; otherwise the token must belong to the signed-in user.
func (c *Coordinator) Authorize(ctx context.Context, token string) (string, error) {
	start := time.Now()
	userID, err := c.identity.Current(ctx, token)
	metrics.Observe(metrics.ServiceIdentity, "current", start, err)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	current := c.userID.Get()
	switch {
	case current == "":
		c.token = token
		c.userID.Set(userID)
	case current != userID:
		return "", domain.ErrSessionMismatch
	}
	return userID, nil
}

// SignOut clears the local session at once. Revoking the token remotely
// happens in the background and failures are only logged.
func (c *Coordinator) SignOut() {
	c.mu.Lock()
	token := c.token
	c.token = ""
	c.mu.Unlock()

	userID := c.userID.Get()
	c.userID.Set("")
	if token == "" {
		return
	}
	log.Infow("user signed out", "user_id", userID)

	c.goBackground(func(ctx context.Context) {
		start := time.Now()
		err := c.identity.SignOut(ctx, token)
		metrics.Observe(metrics.ServiceIdentity, "sign_out", start, err)
		if err != nil {
			log.Warnw("failed to revoke session", "user_id", userID, "error", err)
		}
	})
}

// FetchProductCatalog replaces the catalog with every product in the store.
// On failure the catalog keeps its previous value.
func (c *Coordinator) FetchProductCatalog(ctx context.Context) error {
	snap, err := c.store.Get(ctx, store.ProductsPath)
	if err != nil {
		log.Errorw("failed to fetch product catalog", "error", err)
		return err
	}

	products := make([]domain.Product, 0, len(snap.Children))
	for _, child := range snap.Children {
		products = append(products, productFromFields(child.Key, child.Fields))
	}
	c.catalog.Set(products)
	return nil
}

// Product looks a product up in the loaded catalog.
func (c *Coordinator) Product(id string) (domain.Product, error) {
	for _, p := range c.catalog.Get() {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, domain.ErrProductNotFound
}

// SaveProduct writes a new catalog record under a freshly allocated key and
// returns it with its id filled in.
func (c *Coordinator) SaveProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	if err := c.validate.Struct(p); err != nil {
		return domain.Product{}, err
	}

	key, err := c.store.Push(ctx, store.ProductsPath)
	if err != nil {
		return domain.Product{}, errors.Join(domain.ErrKeyAllocation, err)
	}
	p.ID = key

	if err := c.store.Set(ctx, store.Join(store.ProductsPath, key), productFields(p)); err != nil {
		return domain.Product{}, err
	}
	log.Infow("product saved", "product_id", key, "name", p.Name)
	return p, nil
}

// RecordConsumption logs that the signed-in user ate p today and adds its
// kcal to today's running total. The entry write is never rolled back: if
// the total update fails the increment is queued for ReconcileTotals and a
// *domain.PartialConsumptionError is returned alongside the written entry.
func (c *Coordinator) RecordConsumption(ctx context.Context, p domain.Product) (domain.ConsumptionEntry, error) {
	userID := c.userID.Get()
	if userID == "" {
		return domain.ConsumptionEntry{}, domain.ErrNotAuthenticated
	}
	if err := c.validate.Struct(p); err != nil {
		return domain.ConsumptionEntry{}, err
	}
	kcal, err := domain.ParseKcal(p.Kcal)
	if err != nil {
		return domain.ConsumptionEntry{}, err
	}

	key, err := c.store.Push(ctx, store.UserEatPath)
	if err != nil {
		return domain.ConsumptionEntry{}, errors.Join(domain.ErrKeyAllocation, err)
	}
	entry := domain.ConsumptionEntry{
		ID:       key,
		UserID:   userID,
		Name:     p.Name,
		Category: p.Category,
		Kcal:     p.Kcal,
		ImageURL: p.ImageURL,
		Date:     stats.Today(c.now()),
	}
	if err := c.store.Set(ctx, store.Join(store.UserEatPath, key), entryFields(entry)); err != nil {
		return domain.ConsumptionEntry{}, err
	}

	if err := c.addToDailyTotal(ctx, userID, entry.Date, kcal); err != nil {
		c.enqueue(pendingTotal{EntryID: key, UserID: userID, Date: entry.Date, Kcal: kcal})
		metrics.PartialConsumption()
		log.Warnw("daily total not updated, queued for reconciliation",
			"entry_id", key, "user_id", userID, "date", entry.Date, "error", err)
		return entry, &domain.PartialConsumptionError{Entry: entry, Cause: err}
	}
	return entry, nil
}

// ReconcileTotals retries queued daily-total increments. Increments that
// fail again stay queued.
func (c *Coordinator) ReconcileTotals(ctx context.Context) error {
	c.reconcileMu.Lock()
	defer c.reconcileMu.Unlock()

	c.mu.Lock()
	queued := c.pending
	c.pending = nil
	c.mu.Unlock()
	if len(queued) == 0 {
		return nil
	}

	var (
		failed []pendingTotal
		errs   []error
	)
	for _, p := range queued {
		if err := c.addToDailyTotal(ctx, p.UserID, p.Date, p.Kcal); err != nil {
			failed = append(failed, p)
			errs = append(errs, fmt.Errorf("entry %s: %w", p.EntryID, err))
			continue
		}
		log.Infow("daily total reconciled", "entry_id", p.EntryID, "user_id", p.UserID, "date", p.Date)
	}

	c.mu.Lock()
	c.pending = append(failed, c.pending...)
	metrics.PendingTotals(len(c.pending))
	c.mu.Unlock()
	return errors.Join(errs...)
}

// FetchConsumptionLog replaces the log with every entry in the store, for
// all users. Filtering by user is left to the views.
func (c *Coordinator) FetchConsumptionLog(ctx context.Context) error {
	snap, err := c.store.Get(ctx, store.UserEatPath)
	if err != nil {
		return err
	}

	entries := make([]domain.ConsumptionEntry, 0, len(snap.Children))
	for _, child := range snap.Children {
		entries = append(entries, entryFromFields(child.Key, child.Fields))
	}
	c.log.Set(entries)
	return nil
}

// FetchAllDailyTotals replaces the totals with every date and user in the store.
func (c *Coordinator) FetchAllDailyTotals(ctx context.Context) error {
	snap, err := c.store.Get(ctx, store.DatePath)
	if err != nil {
		return err
	}

	totals := []domain.DailyTotal{}
	for _, date := range snap.Children {
		for _, user := range date.Children {
			totals = append(totals, totalFromFields(date.Key, user.Key, user.Fields))
		}
	}
	c.totals.Set(totals)
	return nil
}

// FetchDailyTotalsForDate replaces the totals with the signed-in user's
// total for date only.
func (c *Coordinator) FetchDailyTotalsForDate(ctx context.Context, date string) error {
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return domain.ErrInvalidDate
	}
	userID := c.userID.Get()
	if userID == "" {
		return domain.ErrNotAuthenticated
	}

	snap, err := c.store.Get(ctx, store.Join(store.DatePath, date))
	if err != nil {
		return err
	}

	totals := []domain.DailyTotal{}
	for _, user := range snap.Children {
		t := totalFromFields(date, user.Key, user.Fields)
		if t.UserID == userID {
			totals = append(totals, t)
		}
	}
	c.totals.Set(totals)
	return nil
}

func (c *Coordinator) UploadImage(ctx context.Context, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", domain.ErrEmptyImage
	}
	url, err := c.uploader.UploadImage(ctx, data, contentType)
	if err != nil {
		c.upload.Set(domain.UploadState{Err: err})
		return "", err
	}
	c.upload.Set(domain.UploadState{URL: url})
	return url, nil
}

// RequestImageClassification asks the classifier for the kcal of the snack
// pictured at imageURL.
func (c *Coordinator) RequestImageClassification(ctx context.Context, imageURL string) error {
	if strings.TrimSpace(imageURL) == "" {
		return ErrEmptyInput
	}
	return c.classify(ctx, func(ctx context.Context) (string, error) {
		return c.classifier.EstimateFromImage(ctx, imageURL)
	})
}

// RequestNameClassification asks the classifier for the kcal of a product by name.
func (c *Coordinator) RequestNameClassification(ctx context.Context, productName string) error {
	if strings.TrimSpace(productName) == "" {
		return ErrEmptyInput
	}
	return c.classify(ctx, func(ctx context.Context) (string, error) {
		return c.classifier.EstimateFromName(ctx, productName)
	})
}

func (c *Coordinator) ResetAnalysis() {
	c.analysis.Set(domain.AnalysisState{})
}

func (c *Coordinator) classify(ctx context.Context, call func(context.Context) (string, error)) error {
	c.analysis.Set(domain.AnalysisState{Status: domain.AnalysisInFlight})

	raw, err := call(ctx)
	if err != nil {
		c.analysis.Set(domain.AnalysisState{Status: domain.AnalysisCompleted, Err: err})
		return err
	}
	kcal, err := domain.ParseEstimate(raw)
	if err != nil {
		c.analysis.Set(domain.AnalysisState{Status: domain.AnalysisCompleted, Raw: raw, Err: err})
		return err
	}
	c.analysis.Set(domain.AnalysisState{Status: domain.AnalysisCompleted, Kcal: kcal, Raw: raw})
	return nil
}

// addToDailyTotal is a read-then-write on date/<date>/<user>. A stored kcal
// that does not parse counts as zero.
func (c *Coordinator) addToDailyTotal(ctx context.Context, userID, date string, kcal int) error {
	path := store.Join(store.DatePath, date, userID)
	snap, err := c.store.Get(ctx, path)
	if err != nil {
		return err
	}
	current, err := domain.ParseKcal(snap.Fields["kcal"])
	if err != nil {
		current = 0
	}
	return c.store.Set(ctx, path, store.Fields{
		"user_id": userID,
		"kcal":    strconv.Itoa(current + kcal),
	})
}

func (c *Coordinator) setSession(s domain.Session) {
	c.mu.Lock()
	c.token = s.Token
	c.mu.Unlock()
	c.userID.Set(s.UserID)
}

func (c *Coordinator) enqueue(p pendingTotal) {
	c.mu.Lock()
	c.pending = append(c.pending, p)
	metrics.PendingTotals(len(c.pending))
	c.mu.Unlock()
}

func (c *Coordinator) goBackground(fn func(ctx context.Context)) {
	c.background.Add(1)
	go func() {
		defer c.background.Done()
		ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
		defer cancel()
		fn(ctx)
	}()
}
