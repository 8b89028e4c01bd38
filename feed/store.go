package feed

import (
	"context"
	"sync"

	"nwitter_api/types"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/logging"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Store produces live views of the global feed: the tweets collection
// ordered by createdAt descending, capped at one page. Every change the
// backend acknowledges yields a complete fresh snapshot; consumers never
// receive diffs.
type Store struct {
	db     *firestore.Client
	logger *logging.Logger
}

func NewStore(db *firestore.Client, logger *logging.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// Subscription is one live feed window. Snapshots delivers full ordered
// snapshots, latest-wins when the consumer lags. Err carries subscription
// failures; after an error no further snapshots arrive.
type Subscription struct {
	snapshots chan []types.Tweet
	errs      chan error
	cancel    context.CancelFunc
	closeOnce sync.Once
}

func newSubscription(cancel context.CancelFunc) *Subscription {
	return &Subscription{
		snapshots: make(chan []types.Tweet, 1),
		errs:      make(chan error, 1),
		cancel:    cancel,
	}
}

func (s *Subscription) Snapshots() <-chan []types.Tweet {
	return s.snapshots
}

func (s *Subscription) Err() <-chan error {
	return s.errs
}

// Unsubscribe tears the live query down. Safe to call more than once, and
// safe to call before the server-side listener is fully established.
func (s *Subscription) Unsubscribe() {
	s.closeOnce.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
}

// publish replaces any undelivered snapshot with the new one. A consumer
// that wakes up late sees only the current authoritative view.
func (s *Subscription) publish(tweets []types.Tweet) {
	for {
		select {
		case s.snapshots <- tweets:
			return
		default:
			select {
			case <-s.snapshots:
			default:
			}
		}
	}
}

func (s *Subscription) fail(err error) {
	select {
	case s.errs <- err:
	default:
	}
}

// Subscribe opens one server-side live query and pumps its snapshots until
// the context is canceled or Unsubscribe is called. The snapshot channel
// is closed when the pump exits.
func (s *Store) Subscribe(ctx context.Context) *Subscription {
	ctx, cancel := context.WithCancel(ctx)
	sub := newSubscription(cancel)

	query := s.db.Collection(types.FIREBASE_TWEETS_COLLECTION).
		OrderBy(types.FIREBASE_TWEETS_FIELDS_CREATED_AT, firestore.Desc).
		Limit(types.FEED_PAGE_SIZE)

	go func() {
		it := query.Snapshots(ctx)
		defer it.Stop()
		defer close(sub.snapshots)

		for {
			snap, err := it.Next()
			if err != nil {
				if status.Code(err) == codes.Canceled {
					return
				}

				s.logger.Log(logging.Entry{
					Severity: logging.Error,
					Payload:  "Feed subscription failed: " + err.Error(),
					Labels:   map[string]string{"status": "error"},
				})
				sub.fail(err)
				return
			}

			tweets, err := collectTweets(snap)
			if err != nil {
				s.logger.Log(logging.Entry{
					Severity: logging.Error,
					Payload:  "Error reading feed snapshot: " + err.Error(),
					Labels:   map[string]string{"status": "error"},
				})
				sub.fail(err)
				return
			}

			sub.publish(tweets)
		}
	}()

	return sub
}

func collectTweets(snap *firestore.QuerySnapshot) ([]types.Tweet, error) {
	tweets := make([]types.Tweet, 0, types.FEED_PAGE_SIZE)

	for {
		doc, err := snap.Documents.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		tweets = append(tweets, types.TweetFromDoc(doc.Ref.ID, doc.Data()))
	}

	return tweets, nil
}
