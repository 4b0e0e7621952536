package scanner

import (
	"context"
	"strings"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/graveshift/graveshift/internal/adapter"
	"github.com/graveshift/graveshift/internal/domain"
	"github.com/graveshift/graveshift/internal/logger"
	"github.com/graveshift/graveshift/internal/providers/alchemy"
	"github.com/graveshift/graveshift/internal/providers/dexscreener"
	"github.com/graveshift/graveshift/internal/providers/ethplorer"
)

const (
	DefaultEnrichBatchSize   = 30
	DefaultEnrichConcurrency = 4
)

// Scanner discovers economically abandoned holdings for a wallet
type Scanner interface {
	// ScanDeadAssets collects holdings from both sources, enriches the
	// fungible ones with exchange-pair data, and returns scored results
	ScanDeadAssets(ctx context.Context, ethAddress string, limit int) (*domain.ScanResult, error)
}

type scanner struct {
	ethplorer   ethplorer.Client
	alchemy     alchemy.Client
	dexscreener dexscreener.Client
	clock       adapter.Clock
	batchSize   int
	concurrency int
}

// NewScanner creates a dead-asset scanner over the given holdings and
// pair-index providers
func NewScanner(
	ethplorerClient ethplorer.Client,
	alchemyClient alchemy.Client,
	dexscreenerClient dexscreener.Client,
	clock adapter.Clock,
	batchSize int,
	concurrency int,
) Scanner {
	if batchSize <= 0 {
		batchSize = DefaultEnrichBatchSize
	}
	if concurrency <= 0 {
		concurrency = DefaultEnrichConcurrency
	}

	return &scanner{
		ethplorer:   ethplorerClient,
		alchemy:     alchemyClient,
		dexscreener: dexscreenerClient,
		clock:       clock,
		batchSize:   batchSize,
		concurrency: concurrency,
	}
}

// ScanDeadAssets fetches both holdings sources concurrently; a failure of
// either source aborts the scan. Liquidity enrichment runs afterwards and
// degrades gracefully on per-batch failures.
func (s *scanner) ScanDeadAssets(ctx context.Context, ethAddress string, limit int) (*domain.ScanResult, error) {
	var erc20Holdings []domain.ERC20Holding
	var erc1155Holdings []domain.ERC1155Holding

	pool := pond.NewPool(2, pond.WithContext(ctx))
	erc20Task := pool.SubmitErr(func() error {
		holdings, err := s.ethplorer.GetAddressHoldings(ctx, ethAddress)
		if err != nil {
			return err
		}
		erc20Holdings = holdings
		return nil
	})
	erc1155Task := pool.SubmitErr(func() error {
		holdings, err := s.alchemy.GetERC1155Holdings(ctx, ethAddress)
		if err != nil {
			return err
		}
		erc1155Holdings = holdings
		return nil
	})

	erc20Err := erc20Task.Wait()
	erc1155Err := erc1155Task.Wait()
	pool.StopAndWait()

	if erc20Err != nil {
		return nil, erc20Err
	}
	if erc1155Err != nil {
		return nil, erc1155Err
	}

	pairsByToken := s.enrichWithPairs(ctx, erc20Holdings)

	now := s.clock.Now()
	assets := make([]domain.DeadAsset, 0, len(erc20Holdings)+len(erc1155Holdings))
	for _, holding := range erc20Holdings {
		pairs := pairsByToken[strings.ToLower(holding.ContractAddress)]
		assets = append(assets, EvaluateERC20Holding(holding, pairs, now))
	}
	for _, holding := range erc1155Holdings {
		assets = append(assets, EvaluateERC1155Holding(holding))
	}

	return &domain.ScanResult{
		TotalHoldings: len(erc20Holdings) + len(erc1155Holdings),
		DeadAssets:    Finalize(assets, limit),
	}, nil
}

// batchPairs is the enrichment result for one batch of contract addresses
type batchPairs struct {
	addresses []string
	pairs     []domain.DexPair
}

// enrichWithPairs queries the pair index in fixed-size batches. A failed
// batch contributes no liquidity data instead of failing the scan.
func (s *scanner) enrichWithPairs(ctx context.Context, holdings []domain.ERC20Holding) map[string][]domain.DexPair {
	result := make(map[string][]domain.DexPair)

	unique := uniqueLowercaseAddresses(holdings)
	if len(unique) == 0 {
		return result
	}

	pool := pond.NewResultPool[batchPairs](s.concurrency, pond.WithContext(ctx))

	var tasks []pond.Result[batchPairs]
	for start := 0; start < len(unique); start += s.batchSize {
		end := start + s.batchSize
		if end > len(unique) {
			end = len(unique)
		}
		batch := unique[start:end]

		tasks = append(tasks, pool.SubmitErr(func() (batchPairs, error) {
			pairs, err := s.dexscreener.GetEthereumPairs(ctx, batch)
			if err != nil {
				return batchPairs{}, err
			}
			return batchPairs{addresses: batch, pairs: pairs}, nil
		}))
	}

	for _, task := range tasks {
		batch, err := task.Wait()
		if err != nil {
			logger.WarnCtx(ctx, "pair enrichment batch failed", zap.Error(err))
			continue
		}

		inBatch := make(map[string]bool, len(batch.addresses))
		for _, address := range batch.addresses {
			inBatch[address] = true
		}

		for _, pair := range batch.pairs {
			for _, address := range []string{pair.BaseToken, pair.QuoteToken} {
				if address == "" || !inBatch[address] {
					continue
				}
				result[address] = append(result[address], pair)
			}
		}
	}

	pool.StopAndWait()

	return result
}

func uniqueLowercaseAddresses(holdings []domain.ERC20Holding) []string {
	seen := make(map[string]bool, len(holdings))
	unique := make([]string, 0, len(holdings))
	for _, holding := range holdings {
		address := strings.ToLower(holding.ContractAddress)
		if seen[address] {
			continue
		}
		seen[address] = true
		unique = append(unique, address)
	}
	return unique
}
