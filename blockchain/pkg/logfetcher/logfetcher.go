package logfetcher

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"regexp"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog"
)

// Providers cap eth_getLogs responses and reject over-large ranges with an
// error naming the range they would accept, e.g. Alchemy's
// "... this block range should work: [0x123, 0x456]".
var suggestedRangePattern = regexp.MustCompile(`\[0x([0-9a-fA-F]+),\s*0x([0-9a-fA-F]+)\]`)

// ParseSuggestedRange extracts a provider-suggested block range from an
// eth_getLogs error message. ok is false when the message carries none.
func ParseSuggestedRange(errMessage string) (from, to uint64, ok bool) {
	match := suggestedRangePattern.FindStringSubmatch(errMessage)
	if match == nil {
		return 0, 0, false
	}

	fromBlock, ok1 := new(big.Int).SetString(match[1], 16)
	toBlock, ok2 := new(big.Int).SetString(match[2], 16)
	if !ok1 || !ok2 {
		return 0, 0, false
	}
	return fromBlock.Uint64(), toBlock.Uint64(), true
}

// chunkState drives the per-chunk retry loop.
type chunkState int

const (
	fetching chunkState = iota
	retryingSuggested
	chunkDone
	chunkFailed
)

// ethReader is the slice of the RPC client the fetcher uses. *ethclient.Client
// satisfies it; tests substitute a scripted fake.
type ethReader interface {
	BlockNumber(ctx context.Context) (uint64, error)
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
}

// Fetcher retrieves event logs over large block ranges in fixed-size chunks,
// retrying each chunk and renegotiating the range when the provider suggests
// a narrower one.
type Fetcher struct {
	client    ethReader
	ChunkSize uint64
	Retries   int
	Delay     time.Duration
	lg        zerolog.Logger
}

// Option is a functional option for configuring Fetcher
type Option func(*Fetcher)

func WithChunkSize(size uint64) Option {
	return func(f *Fetcher) {
		f.ChunkSize = size
	}
}

func WithRetries(retries int) Option {
	return func(f *Fetcher) {
		// A chunk always gets at least one attempt.
		if retries < 1 {
			retries = 1
		}
		f.Retries = retries
	}
}

func WithDelay(delay time.Duration) Option {
	return func(f *Fetcher) {
		f.Delay = delay
	}
}

// NewFetcher creates a log fetcher. Defaults: 500-block chunks, 3 attempts per
// chunk, 2s between attempts.
func NewFetcher(client ethReader, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:    client,
		ChunkSize: 500,
		Retries:   3,
		Delay:     2 * time.Second,
		lg:        zerolog.New(os.Stdout).With().Str("Module", "LogFetcher").Timestamp().Logger(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchLogs collects all logs matching addresses/topics in [fromBlock,
// toBlock]. A nil toBlock means the current head. Returns logs in block order.
func (f *Fetcher) FetchLogs(ctx context.Context, addresses []common.Address, topics [][]common.Hash, fromBlock uint64, toBlock *uint64) ([]types.Log, error) {

	actualToBlock := uint64(0)
	if toBlock == nil {
		head, err := f.client.BlockNumber(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve latest block: %w", err)
		}
		actualToBlock = head
		f.lg.Debug().Uint64("head", head).Msg("resolved latest block")
	} else {
		actualToBlock = *toBlock
	}

	if fromBlock > actualToBlock {
		f.lg.Warn().Uint64("from", fromBlock).Uint64("to", actualToBlock).Msg("fromBlock is greater than toBlock, nothing to fetch")
		return nil, nil
	}

	var allLogs []types.Log
	current := fromBlock
	for current <= actualToBlock {
		chunkTo := min(current+f.ChunkSize-1, actualToBlock)

		logs, fetchedTo, err := f.fetchChunk(ctx, addresses, topics, current, chunkTo)
		if err != nil {
			return nil, err
		}
		allLogs = append(allLogs, logs...)

		// A suggested range can end below our chunk target; resume right
		// after what was actually fetched.
		current = fetchedTo + 1
	}

	f.lg.Debug().Int("logs", len(allLogs)).Uint64("from", fromBlock).Uint64("to", actualToBlock).Msg("finished fetching logs")
	return allLogs, nil
}

// fetchChunk runs the retry state machine for a single chunk. It returns the
// logs together with the block the fetch actually reached, which may be lower
// than chunkTo when a suggested range was applied.
func (f *Fetcher) fetchChunk(ctx context.Context, addresses []common.Address, topics [][]common.Hash, chunkFrom, chunkTo uint64) ([]types.Log, uint64, error) {

	effectiveTo := chunkTo
	state := fetching
	var logs []types.Log
	var lastErr error

	for attempt := 0; attempt < f.Retries && state != chunkDone; attempt++ {
		query := ethereum.FilterQuery{
			FromBlock: new(big.Int).SetUint64(chunkFrom),
			ToBlock:   new(big.Int).SetUint64(effectiveTo),
			Addresses: addresses,
			Topics:    topics,
		}

		var err error
		logs, err = f.client.FilterLogs(ctx, query)
		if err == nil {
			state = chunkDone
			f.lg.Debug().Uint64("from", chunkFrom).Uint64("to", effectiveTo).Int("logs", len(logs)).Msg("chunk fetched")
			continue
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, 0, ctx.Err()
		}

		suggestedFrom, suggestedTo, hasSuggestion := ParseSuggestedRange(err.Error())
		switch {
		// Apply a suggestion at most once per chunk, and only if it is for
		// our starting block and genuinely narrows the range.
		case state == fetching && hasSuggestion &&
			suggestedFrom == chunkFrom && suggestedTo >= suggestedFrom && suggestedTo < effectiveTo:
			f.lg.Info().Uint64("from", suggestedFrom).Uint64("to", suggestedTo).Msg("applying provider-suggested block range")
			effectiveTo = suggestedTo
			state = retryingSuggested
			continue // retry immediately with the narrowed range

		case state == retryingSuggested && hasSuggestion:
			f.lg.Warn().Str("error", err.Error()).Msg("suggestion already applied for this chunk, ignoring further suggestion")

		default:
			f.lg.Warn().Err(err).Int("attempt", attempt+1).Uint64("from", chunkFrom).Uint64("to", effectiveTo).Msg("chunk fetch failed")
		}

		if attempt < f.Retries-1 {
			select {
			case <-ctx.Done():
				return nil, 0, ctx.Err()
			case <-time.After(f.Delay):
			}
		}
	}

	if state != chunkDone {
		state = chunkFailed
		return nil, 0, fmt.Errorf("failed to fetch logs for block range %d-%d after %d attempts: %w", chunkFrom, effectiveTo, f.Retries, lastErr)
	}

	return logs, effectiveTo, nil
}
