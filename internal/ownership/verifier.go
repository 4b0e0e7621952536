package ownership

import (
	"context"
	"fmt"
	"strings"

	"github.com/alitto/pond/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/graveshift/graveshift/internal/asset"
	"github.com/graveshift/graveshift/internal/domain"
	"github.com/graveshift/graveshift/internal/logger"
	"github.com/graveshift/graveshift/internal/providers/alchemy"
	"github.com/graveshift/graveshift/internal/providers/ethereum"
)

const defaultERC20Decimals = 18

// Verifier checks on-chain ownership of an EVM asset
type Verifier interface {
	// Verify reads authoritative chain state for the asset and reports
	// whether the claimed owner holds it. AssetKey and AssetID are
	// populated on every path, verified or not.
	Verify(ctx context.Context, input domain.NormalizedAssetInput) (*domain.OwnershipCheck, error)
}

type verifier struct {
	clients map[domain.Blockchain]ethereum.EthereumClient
	alchemy alchemy.Client
}

// NewVerifier creates an ownership verifier over per-chain RPC clients and
// the NFT indexer used as the Polygon ERC-1155 fallback
func NewVerifier(
	ethereumClient ethereum.EthereumClient,
	polygonClient ethereum.EthereumClient,
	alchemyClient alchemy.Client,
) Verifier {
	return &verifier{
		clients: map[domain.Blockchain]ethereum.EthereumClient{
			domain.BlockchainEthereum: ethereumClient,
			domain.BlockchainPolygon:  polygonClient,
		},
		alchemy: alchemyClient,
	}
}

// Verify dispatches by asset type. On-chain read failures are reported as
// not-verified with a diagnostic reason rather than retried; a bad
// contract/tokenId pair will not succeed on retry.
func (v *verifier) Verify(ctx context.Context, input domain.NormalizedAssetInput) (*domain.OwnershipCheck, error) {
	client, ok := v.clients[input.Chain]
	if !ok {
		return nil, fmt.Errorf("no RPC client for chain %s", input.Chain)
	}

	assetKey := asset.Key(&input)
	check := &domain.OwnershipCheck{
		AssetKey: assetKey,
		AssetID:  asset.ID(assetKey),
	}

	switch input.AssetType {
	case domain.AssetTypeERC721:
		v.verifyERC721(ctx, client, input, check)
	case domain.AssetTypeERC1155:
		v.verifyERC1155(ctx, client, input, check)
	default:
		v.verifyERC20(ctx, client, input, check)
	}

	return check, nil
}

func (v *verifier) verifyERC721(ctx context.Context, client ethereum.EthereumClient, input domain.NormalizedAssetInput, check *domain.OwnershipCheck) {
	owner, err := client.ERC721OwnerOf(ctx, input.ContractAddress, *input.TokenID)
	if err != nil {
		logger.WarnCtx(ctx, "ERC-721 owner read failed", zap.Error(err))
		check.Reason = "Failed to verify ERC-721 ownership. Check chain, contract, and tokenId."
		return
	}

	check.Metadata = readTokenMetadata(ctx, client, input)
	if !strings.EqualFold(owner, input.EthAddress) {
		check.Reason = "Connected Ethereum wallet is not the owner of this ERC-721 token"
		return
	}

	check.Verified = true
}

func (v *verifier) verifyERC1155(ctx context.Context, client ethereum.EthereumClient, input domain.NormalizedAssetInput, check *domain.OwnershipCheck) {
	balance, err := client.ERC1155BalanceOf(ctx, input.ContractAddress, input.EthAddress, *input.TokenID)
	if err != nil {
		// A faulted read (not a zero balance) falls back to the Polygon
		// NFT indexer when available
		logger.WarnCtx(ctx, "ERC-1155 balance read failed", zap.Error(err))

		if input.Chain == domain.BlockchainPolygon {
			fallback, fbErr := v.alchemy.GetERC1155Balance(ctx, input.EthAddress, input.ContractAddress, *input.TokenID)
			if fbErr != nil {
				logger.WarnCtx(ctx, "ERC-1155 indexer fallback failed", zap.Error(fbErr))
			} else if fallback != nil {
				balanceStr := fallback.String()
				check.TokenBalance = &balanceStr
				if fallback.Sign() > 0 {
					check.Verified = true
				} else {
					check.Reason = "Connected wallet has zero balance for this ERC-1155 token"
				}
				return
			}
		}

		check.Reason = "Failed to verify ERC-1155 balance. Check chain, contract, and tokenId."
		return
	}

	balanceStr := balance.String()
	check.TokenBalance = &balanceStr
	if balance.Sign() > 0 {
		check.Verified = true
	} else {
		check.Reason = "Connected wallet has zero balance for this ERC-1155 token"
	}
}

func (v *verifier) verifyERC20(ctx context.Context, client ethereum.EthereumClient, input domain.NormalizedAssetInput, check *domain.OwnershipCheck) {
	balance, err := client.ERC20BalanceOf(ctx, input.ContractAddress, input.EthAddress)
	if err != nil {
		logger.WarnCtx(ctx, "ERC-20 balance read failed", zap.Error(err))
		check.Reason = "Failed to verify ERC-20 balance. Check chain and contract address."
		return
	}

	check.Metadata = readTokenMetadata(ctx, client, input)

	decimals := defaultERC20Decimals
	if check.Metadata.Decimals != nil {
		decimals = *check.Metadata.Decimals
	}

	formatted := decimal.NewFromBigInt(balance, -int32(decimals)).String()
	check.TokenBalance = &formatted

	if balance.Sign() > 0 {
		check.Verified = true
	} else {
		check.Reason = "Connected Ethereum wallet has zero balance for this ERC-20 token"
	}
}

// readTokenMetadata fetches best-effort display metadata. Individual read
// failures leave the field nil; metadata never blocks verification.
func readTokenMetadata(ctx context.Context, client ethereum.EthereumClient, input domain.NormalizedAssetInput) domain.TokenMetadata {
	metadata := domain.TokenMetadata{}

	pool := pond.NewPool(3, pond.WithContext(ctx))
	pool.Submit(func() {
		if name, err := client.TokenName(ctx, input.ContractAddress); err == nil && name != "" {
			metadata.Name = &name
		}
	})
	pool.Submit(func() {
		if symbol, err := client.TokenSymbol(ctx, input.ContractAddress); err == nil && symbol != "" {
			metadata.Symbol = &symbol
		}
	})
	if input.AssetType == domain.AssetTypeERC20 {
		pool.Submit(func() {
			if decimals, err := client.TokenDecimals(ctx, input.ContractAddress); err == nil {
				value := int(decimals)
				metadata.Decimals = &value
			}
		})
	}
	pool.StopAndWait()

	return metadata
}
