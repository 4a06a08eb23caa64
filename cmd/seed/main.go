// Команда seed наполняет базу демонстрационными мастерами, услугами
// и заявками листа ожидания. Схема должна быть применена заранее.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inksync/studio-booking/internal/config"
	"github.com/inksync/studio-booking/internal/domain"
	"github.com/inksync/studio-booking/pkg/logger"
)

type offeringTemplate struct {
	name     string
	duration int
	price    float64
}

var (
	specialties = []string{
		"Traditional & Neo-traditional",
		"Black & Grey Realism",
		"Watercolor",
		"Geometric & Dotwork",
		"Japanese Irezumi",
		"Fine Line & Minimalism",
	}

	offeringTemplates = []offeringTemplate{
		{name: "Consultation", duration: 30, price: 0},
		{name: "Small tattoo", duration: 60, price: 120},
		{name: "Medium tattoo", duration: 120, price: 280},
		{name: "Large session", duration: 240, price: 520},
		{name: "Touch-up", duration: 30, price: 40},
	}

	waitlistStyles = []domain.TattooStyle{
		domain.StyleTraditional,
		domain.StyleRealism,
		domain.StyleWatercolor,
		domain.StyleGeometric,
		domain.StyleJapanese,
		domain.StyleMinimalist,
	}
)

func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	resources := flag.Int("resources", 6, "number of artists to create")
	waitlist := flag.Int("waitlist", 40, "number of waitlist entries to create")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	pool, err := pgxpool.New(connectCtx, cfg.Database.URL())
	if err == nil {
		err = pool.Ping(connectCtx)
	}
	cancel()
	if err != nil {
		log.Fatal("seed: connect postgres: %v", err)
	}
	defer pool.Close()

	ctx := context.Background()

	resourceIDs, err := seedResources(ctx, pool, *resources)
	if err != nil {
		log.Fatal("seed: resources: %v", err)
	}
	log.Info("seed: %d artists with working hours and offerings", len(resourceIDs))

	if err := seedWaitlist(ctx, pool, resourceIDs, *waitlist); err != nil {
		log.Fatal("seed: waitlist: %v", err)
	}
	log.Info("seed: %d waitlist entries", *waitlist)
}

func seedResources(ctx context.Context, pool *pgxpool.Pool, count int) ([]int64, error) {
	ids := make([]int64, 0, count)

	err := pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		for i := 0; i < count; i++ {
			var id int64
			err := tx.QueryRow(ctx, `
				INSERT INTO resources (user_id, name, specialty, bio, is_available)
				VALUES ($1, $2, $3, $4, TRUE)
				RETURNING id
			`,
				int64(1000+i),
				gofakeit.Name(),
				specialties[i%len(specialties)],
				gofakeit.Sentence(12),
			).Scan(&id)
			if err != nil {
				return fmt.Errorf("insert resource: %w", err)
			}

			// Пн-Сб 10:00-19:00, воскресенье выходной
			for weekday := time.Sunday; weekday <= time.Saturday; weekday++ {
				if weekday == time.Sunday {
					_, err = tx.Exec(ctx, `
						INSERT INTO resource_working_hours (resource_id, weekday, is_open)
						VALUES ($1, $2, FALSE)
					`, id, int(weekday))
				} else {
					_, err = tx.Exec(ctx, `
						INSERT INTO resource_working_hours (resource_id, weekday, is_open, open_time, close_time)
						VALUES ($1, $2, TRUE, '10:00', '19:00')
					`, id, int(weekday))
				}
				if err != nil {
					return fmt.Errorf("insert working hours: %w", err)
				}
			}

			batch := &pgx.Batch{}
			for _, o := range offeringTemplates {
				var price any
				if o.price > 0 {
					price = o.price
				}
				batch.Queue(`
					INSERT INTO service_offerings (resource_id, name, description, duration_minutes, price)
					VALUES ($1, $2, $3, $4, $5)
				`, id, o.name, gofakeit.Sentence(8), o.duration, price)
			}
			if err := tx.SendBatch(ctx, batch).Close(); err != nil {
				return fmt.Errorf("insert offerings: %w", err)
			}

			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func seedWaitlist(ctx context.Context, pool *pgxpool.Pool, resourceIDs []int64, count int) error {
	sizes := []domain.SizeClass{domain.SizeSmall, domain.SizeMedium, domain.SizeLarge}
	budgets := []domain.BudgetBracket{domain.BudgetUnder200, domain.Budget200To500, domain.Budget500To1000, domain.BudgetOver1000}

	batch := &pgx.Batch{}
	for i := 0; i < count; i++ {
		// Часть заявок без предпочтения мастера
		var resourceID any
		if len(resourceIDs) > 0 && gofakeit.Bool() {
			resourceID = resourceIDs[gofakeit.Number(0, len(resourceIDs)-1)]
		}

		batch.Queue(`
			INSERT INTO waitlist_entries (customer_id, resource_id, style, size, preferred_dates, budget, description)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`,
			int64(gofakeit.Number(10000, 99999)),
			resourceID,
			string(waitlistStyles[gofakeit.Number(0, len(waitlistStyles)-1)]),
			string(sizes[gofakeit.Number(0, len(sizes)-1)]),
			time.Weekday(gofakeit.Number(1, 6)).String()+" afternoons",
			string(budgets[gofakeit.Number(0, len(budgets)-1)]),
			gofakeit.Sentence(10),
		)
	}

	return pool.SendBatch(ctx, batch).Close()
}
