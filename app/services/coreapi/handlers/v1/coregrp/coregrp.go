// Package coregrp maintains the group of handlers for the consensus core.
package coregrp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/coinjecture/core/business/sys/metrics"
	"github.com/coinjecture/core/business/web/errs"
	"github.com/coinjecture/core/foundation/blockchain/ffi"
	"github.com/coinjecture/core/foundation/blockchain/golden"
	"github.com/coinjecture/core/foundation/blockchain/hash"
	"github.com/coinjecture/core/foundation/blockchain/header"
	"github.com/coinjecture/core/foundation/blockchain/merkle"
	"github.com/coinjecture/core/foundation/blockchain/verifier"
	"github.com/coinjecture/core/foundation/events"
	"github.com/coinjecture/core/foundation/validate"
	"github.com/coinjecture/core/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of core endpoints.
type Handlers struct {
	Log  *zap.SugaredLogger
	Evts *events.Events
	WS   websocket.Upgrader
}

// Hash returns the hash of the hex encoded data.
func (h Handlers) Hash(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req hashRequest
	if err := web.Decode(r, &req); err != nil {
		return badRequest(err)
	}

	resp := hashResponse{
		Hash: hash.Sum(req.Data),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// MerkleRoot returns the merkle root of the ordered leaves.
func (h Handlers) MerkleRoot(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req merkleRequest
	if err := web.Decode(r, &req); err != nil {
		return badRequest(err)
	}

	if err := validate.Check(req); err != nil {
		return err
	}

	resp := merkleResponse{
		Root:  merkle.Root(req.Leaves),
		Count: len(req.Leaves),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// MerkleProof returns the inclusion proof for the leaf at the given index.
func (h Handlers) MerkleProof(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req proofRequest
	if err := web.Decode(r, &req); err != nil {
		return badRequest(err)
	}

	if err := validate.Check(req); err != nil {
		return err
	}

	tree := merkle.NewTree(req.Leaves)

	proof, err := tree.Proof(req.Index)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	resp := proofResponse{
		Root:   tree.Root(),
		Leaf:   req.Leaves[req.Index],
		Hashes: proof.Hashes,
		Order:  proof.Order,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Genesis returns the frozen genesis header.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp, err := describe(header.Genesis())
	if err != nil {
		return err
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// HeaderHash returns the canonical encoding and hash of a header.
func (h Handlers) HeaderHash(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var hdr header.BlockHeader
	if err := web.Decode(r, &hdr); err != nil {
		return badRequest(err)
	}

	resp, err := describe(hdr)
	if err != nil {
		return errs.FromCore(err)
	}

	metrics.AddHeadersHashed(ctx)

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// HeaderDecode strictly decodes a canonical header encoding.
func (h Handlers) HeaderDecode(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req decodeRequest
	if err := web.Decode(r, &req); err != nil {
		return badRequest(err)
	}

	if err := validate.Check(req); err != nil {
		return err
	}

	hdr, err := header.Decode(req.Encoded)
	if err != nil {
		h.event(ctx, events.KindHeader, "coregrp: HeaderDecode: rejected: len[%d]: %s", len(req.Encoded), err)
		return errs.FromCore(err)
	}

	resp, err := describe(hdr)
	if err != nil {
		return errs.FromCore(err)
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// ValidateSuccessor checks a child header can follow its parent, and when
// transaction hashes are supplied, that the child commits to them.
func (h Handlers) ValidateSuccessor(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req successorRequest
	if err := web.Decode(r, &req); err != nil {
		return badRequest(err)
	}

	ev := func(v string, args ...any) {
		h.event(ctx, events.KindHeader, v, args...)
	}

	if err := header.ValidateSuccessor(req.Parent, req.Child, ev); err != nil {
		return errs.FromCore(err)
	}

	if req.TxHashes != nil {
		if err := req.Child.MatchesTxs(req.TxHashes); err != nil {
			return errs.FromCore(err)
		}
	}

	parentHash, err := req.Parent.Hash()
	if err != nil {
		return errs.FromCore(err)
	}

	childHash, err := req.Child.Hash()
	if err != nil {
		return errs.FromCore(err)
	}

	resp := successorResponse{
		Valid:      true,
		ParentHash: parentHash,
		ChildHash:  childHash,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Verify checks a subset-sum solution. When no budget is supplied the
// budget of the problem's tier is used.
func (h Handlers) Verify(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req verifyRequest
	if err := web.Decode(r, &req); err != nil {
		return badRequest(err)
	}

	var budget verifier.Budget
	switch req.Budget {
	case nil:
		b, err := verifier.BudgetForTier(req.Problem.Tier)
		if err != nil {
			return errs.FromCore(err)
		}
		budget = b

	default:
		budget = *req.Budget
	}

	res, err := verifier.Verify(req.Problem, req.Solution, budget)
	if err != nil {
		if errors.Is(err, verifier.ErrBudgetExceeded) {
			metrics.AddBudgetExceeded(ctx)
		}
		h.event(ctx, events.KindVerify, "coregrp: Verify: failed: tier[%s]: elements[%d]: %s", req.Problem.Tier, len(req.Problem.Elements), err)
		return errs.FromCore(err)
	}

	metrics.AddVerification(ctx, res.Valid)
	h.event(ctx, events.KindVerify, "coregrp: Verify: completed: tier[%s]: valid[%t]: ops[%d]", req.Problem.Tier, res.Valid, res.OpsUsed)

	resp := verifyResponse{
		Result: res,
		Budget: budget,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Tiers returns the element ranges and budgets of every hardware tier.
func (h Handlers) Tiers(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var resp []tierInfo
	for _, t := range verifier.Tiers() {
		lo, hi := t.ElementRange()

		b, err := verifier.BudgetForTier(t)
		if err != nil {
			return err
		}

		resp = append(resp, tierInfo{Tier: t, MinElements: lo, MaxElements: hi, Budget: b})
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Version returns the library, codec and vector set versions.
func (h Handlers) Version(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := versionResponse{
		Version:        ffi.Version(),
		CodecVersion:   ffi.CodecVersion(),
		VectorsVersion: golden.Version,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Vectors runs the frozen vector set through the core and reports every
// vector that is not reproduced.
func (h Handlers) Vectors(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	set, err := golden.Frozen()
	if err != nil {
		return err
	}

	mm := golden.Check(set)
	if mm == nil {
		mm = []golden.Mismatch{}
	}

	resp := struct {
		Version    int               `json:"version"`
		Vectors    int               `json:"vectors"`
		Mismatches []golden.Mismatch `json:"mismatches"`
	}{
		Version:    set.Version,
		Vectors:    len(set.SHA256) + len(set.Merkle) + len(set.Headers) + len(set.SubsetSum),
		Mismatches: mm,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case evt, open := <-ch:
			if !open {
				return nil
			}

			if err := c.WriteJSON(evt); err != nil {
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// =============================================================================

// event logs the message and broadcasts it to every events subscriber.
func (h Handlers) event(ctx context.Context, kind string, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	traceID := web.GetTraceID(ctx)

	h.Log.Infow(msg, "traceid", traceID, "kind", kind)

	if h.Evts != nil {
		h.Evts.Send(events.Event{Kind: kind, TraceID: traceID, Message: msg})
	}
}

// describe builds the canonical view of a header.
func describe(hdr header.BlockHeader) (headerResponse, error) {
	data, err := header.Encode(hdr)
	if err != nil {
		return headerResponse{}, err
	}

	resp := headerResponse{
		Header:     hdr,
		Hash:       hash.Sum(data),
		Encoded:    data,
		EncodedLen: len(data),
	}

	return resp, nil
}

// badRequest classifies a payload decoding failure.
func badRequest(err error) error {
	if err := errs.FromCore(err); errs.IsTrusted(err) {
		return err
	}

	return errs.NewTrusted(err, http.StatusBadRequest)
}
