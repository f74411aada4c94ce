package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"TransitScan/internal/domain/models"
	"TransitScan/internal/domain/repository"
	pkgkafka "TransitScan/pkg/kafka"
)

// ClickHouseStorage implements Storage for ClickHouse.
type ClickHouseStorage struct {
	db    *sql.DB
	table string
}

// NewClickHouseStorage creates ClickHouse storage.
func NewClickHouseStorage(db *sql.DB, table string) repository.Storage {
	return &ClickHouseStorage{db: db, table: table}
}

func (s *ClickHouseStorage) Init(ctx context.Context) error {
	return nil // Schema init in pkg
}

func (s *ClickHouseStorage) Store(ctx context.Context, p *models.PhotometryPoint) error {
	q := fmt.Sprintf("INSERT INTO %s (ts, target, flux, sigma, source, event_id) VALUES (?, ?, ?, ?, ?, ?)", s.table)
	// Idempotency placeholder: event_id derived from target+timestamp
	eventID := fmt.Sprintf("%s-%d", p.Target, p.Timestamp)
	_, err := s.db.ExecContext(ctx, q,
		time.Unix(p.Timestamp, 0),
		p.Target,
		p.Flux,
		p.Sigma,
		"feed",
		eventID,
	)
	return err
}

func (s *ClickHouseStorage) StoreBatch(ctx context.Context, points []*models.PhotometryPoint) error {
	if len(points) == 0 {
		return nil
	}
	// Batch insert using VALUES multi-row to reduce round-trips.
	// Chunk size tuned to 2000 rows per batch.
	const chunkSize = 2000
	for start := 0; start < len(points); start += chunkSize {
		end := start + chunkSize
		if end > len(points) {
			end = len(points)
		}

		// Build VALUES list
		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*6)
		for _, p := range points[start:end] {
			if p == nil || p.Target == "" || p.Timestamp == 0 {
				continue
			}
			eventID := fmt.Sprintf("%s-%d", p.Target, p.Timestamp)
			values = append(values, "(?, ?, ?, ?, ?, ?)")
			args = append(args,
				time.Unix(p.Timestamp, 0),
				p.Target,
				p.Flux,
				p.Sigma,
				"feed",
				eventID,
			)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (ts, target, flux, sigma, source, event_id) VALUES %s", s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

func (s *ClickHouseStorage) Query(ctx context.Context, target string, from, to time.Time, limit int) ([]*models.PhotometryPoint, error) {
	q := fmt.Sprintf("SELECT target, ts, flux, sigma FROM %s WHERE target = ? AND ts >= ? AND ts <= ? ORDER BY ts DESC LIMIT ?", s.table)
	rows, err := s.db.QueryContext(ctx, q, target, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []*models.PhotometryPoint
	for rows.Next() {
		var p models.PhotometryPoint
		var ts time.Time
		if err := rows.Scan(&p.Target, &ts, &p.Flux, &p.Sigma); err != nil {
			return nil, err
		}
		p.Timestamp = ts.Unix()
		points = append(points, &p)
	}
	return points, rows.Err()
}

func (s *ClickHouseStorage) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseStorage) Close() error {
	return nil // Managed by pkg
}

// KafkaPublisher implements Publisher for Kafka.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPublisher creates Kafka publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, pt *models.PhotometryPoint) error {
	return p.producer.Publish(ctx, p.topic, []byte(pt.Target), map[string]interface{}{
		"target": pt.Target,
		"t":      pt.Timestamp,
		"f":      pt.Flux,
		"e":      pt.Sigma,
	})
}

func (p *KafkaPublisher) PublishBatch(ctx context.Context, points []*models.PhotometryPoint) error {
	if len(points) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(points))
	for i, pt := range points {
		msgs[i] = pkgkafka.Message{
			Key: []byte(pt.Target),
			Value: map[string]interface{}{
				"target": pt.Target,
				"t":      pt.Timestamp,
				"f":      pt.Flux,
				"e":      pt.Sigma,
			},
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
