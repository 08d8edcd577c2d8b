package web

import (
	"context"
	"errors"
	"math/big"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"monad-explorer/internal/api"
	"monad-explorer/internal/format"
	"monad-explorer/internal/models"
	"monad-explorer/internal/search"
	"monad-explorer/internal/theme"
	"monad-explorer/internal/validation"
	"monad-explorer/internal/wallet"
)

const (
	homeListLimit       = 10
	blockTxPreviewLimit = 10
	addressListLimit    = 20
	tokenBalanceLimit   = 50
)

const themeCookieMaxAge = 365 * 24 * 60 * 60

// layout carries what the shared header and footer need.
type layout struct {
	Title string
	Theme theme.Theme
	Chain ChainInfo
}

func (s *Server) layout(c *gin.Context, title string) layout {
	cookie, _ := c.Cookie(theme.CookieName)
	return layout{
		Title: title,
		Theme: s.theme.Resolve(cookie),
		Chain: s.chain,
	}
}

type errorView struct {
	layout
	Heading string
	Message string
}

func (s *Server) renderError(c *gin.Context, status int, heading, message string) {
	c.HTML(status, "error.html", errorView{
		layout:  s.layout(c, heading),
		Heading: heading,
		Message: message,
	})
}

type notFoundView struct {
	layout
	Kind search.Type
	ID   string
}

func (s *Server) renderNotFound(c *gin.Context, kind search.Type, id string) {
	c.HTML(http.StatusNotFound, "notfound.html", notFoundView{
		layout: s.layout(c, kind.Label()+" Not Found"),
		Kind:   kind,
		ID:     id,
	})
}

// renderFetchError shows the not found page for ErrNotFound and an error
// card for anything else
func (s *Server) renderFetchError(c *gin.Context, kind search.Type, id string, err error) {
	if errors.Is(err, api.ErrNotFound) {
		s.renderNotFound(c, kind, id)
		return
	}
	s.renderError(c, http.StatusBadGateway, "Error Loading "+kind.Label(), err.Error())
}

type homeView struct {
	layout
	Blocks       []models.Block
	Transactions []models.Transaction
}

func (s *Server) homeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		view := homeView{layout: s.layout(c, "Home")}

		var g errgroup.Group
		g.Go(func() error {
			page, err := s.explorer.LatestBlocks(ctx, homeListLimit)
			if err != nil {
				s.logger.Warn().Err(err).Msg("Latest blocks unavailable")
				return nil
			}
			view.Blocks = page.Data
			return nil
		})
		g.Go(func() error {
			page, err := s.explorer.LatestTransactions(ctx, homeListLimit)
			if err != nil {
				s.logger.Warn().Err(err).Msg("Latest transactions unavailable")
				return nil
			}
			view.Transactions = page.Data
			return nil
		})
		_ = g.Wait()

		c.HTML(http.StatusOK, "home.html", view)
	}
}

func (s *Server) searchHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Query("q")
		if strings.TrimSpace(query) == "" {
			c.Redirect(http.StatusFound, "/")
			return
		}

		result := search.Detect(query)
		s.emit(c.Request.Context(), models.SearchEvent{
			Query:     query,
			Type:      string(result.Type),
			Value:     result.Value,
			Path:      result.URL(),
			Timestamp: time.Now().UTC(),
		})

		c.Redirect(http.StatusFound, result.URL())
	}
}

// emit publishes a search event. Failures never reach the visitor.
func (s *Server) emit(ctx context.Context, event models.SearchEvent) {
	if s.emitter == nil {
		return
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		s.logger.Warn().Err(err).Str("type", event.Type).Msg("Failed to emit search event")
	}
}

type blockView struct {
	layout
	Block             *models.Block
	GasUsedPercent    string
	Transactions      []models.Transaction
	TotalTransactions int
}

func (s *Server) blockHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.ToLower(c.Param("id"))
		if err := validation.ValidateBlockID(id); err != nil {
			s.renderError(c, http.StatusBadRequest, "Invalid Block", "Block "+id+" is not a block number or block hash.")
			return
		}

		block, err := s.explorer.Block(c.Request.Context(), id)
		if err != nil {
			s.renderFetchError(c, search.TypeBlock, id, err)
			return
		}

		txs := block.Transactions
		if len(txs) > blockTxPreviewLimit {
			txs = txs[:blockTxPreviewLimit]
		}

		c.HTML(http.StatusOK, "block.html", blockView{
			layout:            s.layout(c, "Block #"+block.Number.String()),
			Block:             block,
			GasUsedPercent:    format.CalculatePercentage(block.GasUsed.Big(), block.GasLimit.Big()),
			Transactions:      txs,
			TotalTransactions: len(block.Transactions),
		})
	}
}

// party is one side of a transaction with whatever extra detail was found.
type party struct {
	Address  string
	Metadata *models.AddressMetadata
	Info     *models.Address
}

func (p party) IsContract() bool {
	return p.Info != nil && p.Info.IsContract
}

type txView struct {
	layout
	Tx   *models.Transaction
	Fee  *big.Int
	From party
	To   party
}

func (s *Server) txHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		hash := strings.ToLower(c.Param("hash"))
		if err := validation.ValidateTxHash(hash); err != nil {
			s.renderError(c, http.StatusBadRequest, "Invalid Transaction", "Transaction "+hash+" is not a transaction hash.")
			return
		}

		tx, err := s.explorer.EnrichedTransaction(ctx, hash)
		if errors.Is(err, api.ErrNotFound) {
			// Block hashes have the same shape as transaction hashes
			if _, blockErr := s.explorer.Block(ctx, hash); blockErr == nil {
				c.Redirect(http.StatusFound, search.Result{Type: search.TypeBlock, Value: hash}.URL())
				return
			}
		}
		if err != nil {
			s.renderFetchError(c, search.TypeTransaction, hash, err)
			return
		}

		view := txView{
			layout: s.layout(c, "Transaction "+hash),
			Tx:     tx,
			Fee:    tx.Fee(),
			From:   party{Address: tx.From},
			To:     party{Address: tx.To},
		}

		var g errgroup.Group
		s.describe(ctx, &g, &view.From)
		if !tx.IsContractCreation() {
			s.describe(ctx, &g, &view.To)
		}
		_ = g.Wait()

		c.HTML(http.StatusOK, "tx.html", view)
	}
}

// describe fetches metadata and account info for p. Both are optional.
func (s *Server) describe(ctx context.Context, g *errgroup.Group, p *party) {
	g.Go(func() error {
		meta, err := s.explorer.AddressMetadata(ctx, p.Address)
		if err != nil {
			s.logger.Debug().Err(err).Str("address", p.Address).Msg("No address metadata")
			return nil
		}
		p.Metadata = meta
		return nil
	})
	g.Go(func() error {
		info, err := s.explorer.Address(ctx, p.Address)
		if err != nil {
			s.logger.Debug().Err(err).Str("address", p.Address).Msg("No address info")
			return nil
		}
		p.Info = info
		return nil
	})
}

type addressView struct {
	layout
	Address              *models.Address
	Metadata             *models.AddressMetadata
	Transactions         *models.Page[models.Transaction]
	TokenBalances        *models.Page[models.TokenBalance]
	TokenTransfers       *models.Page[models.TokenTransfer]
	NFTs                 *models.Page[models.NFT]
	NFTTransfers         *models.Page[models.TokenTransfer]
	InternalTransactions *models.Page[models.InternalTransaction]
	Bytecode             *bytecodeView
	BytecodeToggleURL    string
}

func (s *Server) addressHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		address := strings.ToLower(c.Param("address"))
		if err := validation.ValidateAddress(address); err != nil {
			s.renderError(c, http.StatusBadRequest, "Invalid Address", "Address "+address+" is not a valid address.")
			return
		}

		view := addressView{layout: s.layout(c, "Address "+address)}
		g, ctx := errgroup.WithContext(c.Request.Context())

		g.Go(func() (err error) {
			view.Address, err = s.explorer.Address(ctx, address)
			return err
		})
		g.Go(func() (err error) {
			view.Transactions, err = s.explorer.AddressTransactions(ctx, address, 1, addressListLimit)
			return err
		})
		g.Go(func() (err error) {
			view.TokenBalances, err = s.explorer.AddressTokenBalances(ctx, address, 1, tokenBalanceLimit)
			return err
		})
		g.Go(func() (err error) {
			view.TokenTransfers, err = s.explorer.AddressTokenTransfers(ctx, address, 1, addressListLimit)
			return err
		})

		g.Go(func() error {
			meta, err := s.explorer.AddressMetadata(ctx, address)
			if err == nil {
				view.Metadata = meta
			}
			return nil
		})
		g.Go(func() error {
			view.NFTs = optional(s.explorer.AddressNFTs(ctx, address, 1, addressListLimit))
			return nil
		})
		g.Go(func() error {
			view.NFTTransfers = optional(s.explorer.AddressNFTTransfers(ctx, address, 1, addressListLimit))
			return nil
		})
		g.Go(func() error {
			view.InternalTransactions = optional(s.explorer.AddressInternalTransactions(ctx, address, 1, addressListLimit))
			return nil
		})

		if err := g.Wait(); err != nil {
			s.renderFetchError(c, search.TypeAddress, address, err)
			return
		}

		if view.Address.IsContract && view.Address.Bytecode != "" && view.Address.Bytecode != "0x" {
			full := c.Query("code") == "full"
			code := previewBytecode(view.Address.Bytecode, full)
			view.Bytecode = &code
			toggle := url.URL{Path: "/address/" + address}
			if !full {
				toggle.RawQuery = "code=full"
			}
			view.BytecodeToggleURL = toggle.String()
		}

		c.HTML(http.StatusOK, "address.html", view)
	}
}

// optional turns a failed listing into an empty first page.
func optional[T any](page *models.Page[T], err error) *models.Page[T] {
	if err != nil {
		return models.EmptyPage[T](addressListLimit)
	}
	return page
}

type faqView struct {
	layout
	Params  wallet.ChainParams
	ChainID uint64
}

func (s *Server) faqHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		params := s.wallet.Params()
		chainID, _ := hexutil.DecodeUint64(params.ChainID)
		c.HTML(http.StatusOK, "faq.html", faqView{
			layout:  s.layout(c, "FAQ"),
			Params:  params,
			ChainID: chainID,
		})
	}
}

func (s *Server) themeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, _ := c.Cookie(theme.CookieName)
		next := s.theme.Toggle(cookie)

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(theme.CookieName, next.String(), themeCookieMaxAge, "/", "", false, true)
		c.Redirect(http.StatusSeeOther, backTo(c.Request.Referer()))
	}
}

// backTo keeps redirects on this site by dropping everything but the path.
func backTo(referer string) string {
	u, err := url.Parse(referer)
	if err != nil || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") || strings.HasPrefix(u.Path, "/\\") {
		return "/"
	}
	target := url.URL{Path: u.Path, RawQuery: u.RawQuery}
	return target.String()
}

func (s *Server) walletChainHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, s.wallet.Params())
	}
}

var outcomeStatus = map[wallet.Outcome]int{
	wallet.OutcomeAdded:      http.StatusOK,
	wallet.OutcomeNoProvider: http.StatusServiceUnavailable,
	wallet.OutcomeRejected:   http.StatusForbidden,
	wallet.OutcomeBusy:       http.StatusConflict,
	wallet.OutcomeFailed:     http.StatusBadGateway,
}

func (s *Server) walletRegisterHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		result := s.wallet.Register(c.Request.Context())
		status, ok := outcomeStatus[result.Outcome]
		if !ok {
			status = http.StatusInternalServerError
		}
		c.JSON(status, result)
	}
}
