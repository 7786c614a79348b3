// Package mongo implements store.Store on MongoDB.
//
// Players live in the "players" collection keyed by tournament and player
// id; games live in "games" keyed by their deterministic game id, so saving
// the same round twice replaces rather than duplicates it.
package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/swisspair/pkg/errors"
	"github.com/matzehuels/swisspair/pkg/store"
	"github.com/matzehuels/swisspair/pkg/tournament"
)

const (
	playersCollection = "players"
	gamesCollection   = "games"
)

// Store is a MongoDB-backed store.Store.
type Store struct {
	client  *mongo.Client
	players *mongo.Collection
	games   *mongo.Collection
}

type playerDoc struct {
	Key          string            `bson:"_id"`
	TournamentID string            `bson:"tournamentId"`
	Player       tournament.Player `bson:"player"`
}

func playerKey(tournamentID, playerID string) string {
	return tournamentID + "/" + playerID
}

// Open connects to uri, pings the server and ensures indexes on database.
func Open(ctx context.Context, uri, database string) (*Store, error) {
	if err := errors.ValidateURI(uri, "mongodb", "mongodb+srv"); err != nil {
		return nil, err
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongodb")
	}

	db := client.Database(database)
	s := &Store{
		client:  client,
		players: db.Collection(playersCollection),
		games:   db.Collection(gamesCollection),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.players.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "tournamentId", Value: 1}},
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "create player index")
	}
	_, err = s.games.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "tournamentId", Value: 1}, {Key: "round", Value: 1}, {Key: "number", Value: 1}},
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "create game index")
	}
	return nil
}

// LoadSnapshot implements store.Store.
func (s *Store) LoadSnapshot(ctx context.Context, tournamentID string, round int) (*tournament.Snapshot, error) {
	filter := bson.M{"tournamentId": tournamentID}

	cur, err := s.players.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "find players")
	}
	var docs []playerDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "decode players")
	}
	if len(docs) == 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "tournament %q", tournamentID)
	}

	cur, err = s.games.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "round", Value: 1}, {Key: "number", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "find games")
	}
	var games []tournament.Game
	if err := cur.All(ctx, &games); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "decode games")
	}

	snap := &tournament.Snapshot{TournamentID: tournamentID, Round: round, Games: games}
	for _, d := range docs {
		snap.Players = append(snap.Players, d.Player)
	}
	if round == 0 {
		snap.Round = store.NextRound(games)
	}
	return snap, nil
}

// SavePlayers implements store.Store.
func (s *Store) SavePlayers(ctx context.Context, tournamentID string, players []tournament.Player) error {
	if len(players) == 0 {
		return nil
	}
	models := make([]mongo.WriteModel, len(players))
	for i, p := range players {
		doc := playerDoc{Key: playerKey(tournamentID, p.ID), TournamentID: tournamentID, Player: p}
		models[i] = mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": doc.Key}).
			SetReplacement(doc).
			SetUpsert(true)
	}
	if _, err := s.players.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "save %d players", len(players))
	}
	return nil
}

// SaveGames implements store.Store.
func (s *Store) SaveGames(ctx context.Context, games []tournament.Game) error {
	if len(games) == 0 {
		return nil
	}
	models := make([]mongo.WriteModel, len(games))
	for i, g := range games {
		if g.ID == "" {
			return errors.New(errors.ErrCodeInvalidInput, "game %d of round %d has no id", g.Number, g.Round)
		}
		models[i] = mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": g.ID}).
			SetReplacement(g).
			SetUpsert(true)
	}
	if _, err := s.games.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "save %d games", len(games))
	}
	return nil
}

// Drop removes every player and game of a tournament.
func (s *Store) Drop(ctx context.Context, tournamentID string) error {
	filter := bson.M{"tournamentId": tournamentID}
	if _, err := s.players.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("drop players: %w", err)
	}
	if _, err := s.games.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("drop games: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ store.Store = (*Store)(nil)
