package receipt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vybium/vybium-zkvm-verifier/internal/vybium-zkvm-verifier/core"
	"github.com/vybium/vybium-zkvm-verifier/internal/vybium-zkvm-verifier/logger"
	"github.com/vybium/vybium-zkvm-verifier/internal/vybium-zkvm-verifier/protocols"
)

const fixturePo2 = 2

func init() {
	logger.Disable()
}

func newTestContext(t *testing.T) *VerifierContext {
	t.Helper()
	ctx, err := DefaultVerifierContext()
	require.NoError(t, err)
	return ctx
}

// defaultAllowList trusts both circuits of the context.
func defaultAllowList(t *testing.T, ctx *VerifierContext) *AllowList {
	t.Helper()
	list, err := NewAllowList(ctx.Suite(), []core.Digest{
		ctx.SegmentControlID(),
		ctx.RecursionControlID(),
	})
	require.NoError(t, err)
	return list
}

func testClaim(suite core.HashSuite, tag string) Claim {
	return Claim{
		PreStateDigest:  suite.Hash([]byte("pre-" + tag)),
		PostStateDigest: suite.Hash([]byte("post-" + tag)),
		ExitCode:        ExitCode{Kind: ExitHalted},
		Journal:         suite.Hash([]byte("journal-" + tag)),
	}
}

func makeSegment(t *testing.T, ctx *VerifierContext, list *AllowList, claim Claim) SegmentReceipt {
	t.Helper()
	prover, err := protocols.NewProver(ctx.Suite(), ctx.Params(), protocols.SegmentCircuit{})
	require.NoError(t, err)
	seal, err := prover.Prove(claim.Digest(ctx.Suite()), claim.Binding(), fixturePo2)
	require.NoError(t, err)
	inclusion, err := list.Proof(ctx.SegmentControlID())
	require.NoError(t, err)
	return SegmentReceipt{
		Seal:               seal,
		Claim:              claim,
		ControlID:          ctx.SegmentControlID(),
		ControlInclusion:   inclusion,
		VerifierParameters: ctx.ParametersDigest(),
	}
}

func makeSuccinct(t *testing.T, ctx *VerifierContext, list *AllowList, claim Claim) SuccinctReceipt {
	t.Helper()
	prover, err := protocols.NewProver(ctx.Suite(), ctx.Params(), protocols.RecursionCircuit{})
	require.NoError(t, err)
	claimDigest := claim.Digest(ctx.Suite())
	seal, err := prover.Prove(claimDigest, []core.Elem{core.FoldDigest(claimDigest)}, fixturePo2)
	require.NoError(t, err)
	inclusion, err := list.Proof(ctx.RecursionControlID())
	require.NoError(t, err)
	return SuccinctReceipt{
		Seal:               seal,
		Claim:              claim,
		ControlID:          ctx.RecursionControlID(),
		ControlInclusion:   inclusion,
		VerifierParameters: ctx.ParametersDigest(),
	}
}

func TestVerifySegmentReceipt(t *testing.T) {
	ctx := newTestContext(t)
	list := defaultAllowList(t, ctx)
	claim := testClaim(ctx.Suite(), "seg")
	seg := makeSegment(t, ctx, list, claim)

	verified, err := ctx.VerifyIntegrity(&Receipt{Inner: &seg}, list.Root())
	require.NoError(t, err)
	require.Equal(t, claim, verified.Claim)
	require.Equal(t, ctx.SegmentControlID(), verified.ControlID)
}

func TestVerifySegmentRejectsWrongAllowRoot(t *testing.T) {
	ctx := newTestContext(t)
	list := defaultAllowList(t, ctx)
	seg := makeSegment(t, ctx, list, testClaim(ctx.Suite(), "seg"))

	otherList, err := NewAllowList(ctx.Suite(), []core.Digest{ctx.Suite().Hash([]byte("stranger"))})
	require.NoError(t, err)

	_, err = ctx.VerifyIntegrity(&Receipt{Inner: &seg}, otherList.Root())
	require.ErrorIs(t, err, core.ErrKind(core.CodeUntrustedControlID))
}

func TestVerifySegmentRejectsParameterMismatch(t *testing.T) {
	ctx := newTestContext(t)
	list := defaultAllowList(t, ctx)
	seg := makeSegment(t, ctx, list, testClaim(ctx.Suite(), "seg"))
	seg.VerifierParameters[0] ^= 1

	_, err := ctx.VerifyIntegrity(&Receipt{Inner: &seg}, list.Root())
	require.ErrorIs(t, err, core.ErrKind(core.CodeUntrustedControlID))
}

func TestVerifySegmentRejectsForeignControlID(t *testing.T) {
	ctx := newTestContext(t)
	list := defaultAllowList(t, ctx)
	seg := makeSegment(t, ctx, list, testClaim(ctx.Suite(), "seg"))

	// The recursion control ID is on the allow list, but a segment seal
	// must not verify under it.
	seg.ControlID = ctx.RecursionControlID()
	inclusion, err := list.Proof(ctx.RecursionControlID())
	require.NoError(t, err)
	seg.ControlInclusion = inclusion

	_, err = ctx.VerifyIntegrity(&Receipt{Inner: &seg}, list.Root())
	require.ErrorIs(t, err, core.ErrKind(core.CodeUntrustedControlID))
}

func TestVerifySegmentRejectsTamperedClaim(t *testing.T) {
	ctx := newTestContext(t)
	list := defaultAllowList(t, ctx)
	seg := makeSegment(t, ctx, list, testClaim(ctx.Suite(), "seg"))
	seg.Claim.Journal[0] ^= 1

	_, err := ctx.VerifyIntegrity(&Receipt{Inner: &seg}, list.Root())
	require.Error(t, err)
}

func TestVerifySegmentRejectsUndischargedAssumptions(t *testing.T) {
	ctx := newTestContext(t)
	list := defaultAllowList(t, ctx)
	claim := testClaim(ctx.Suite(), "seg")
	claim.Assumptions = []core.Digest{ctx.Suite().Hash([]byte("dangling"))}
	seg := makeSegment(t, ctx, list, claim)

	_, err := ctx.VerifyIntegrity(&Receipt{Inner: &seg}, list.Root())
	require.ErrorIs(t, err, core.ErrKind(core.CodeAssumptionMismatch))
}

func TestVerifySuccinctReceipt(t *testing.T) {
	ctx := newTestContext(t)
	list := defaultAllowList(t, ctx)
	claim := testClaim(ctx.Suite(), "succinct")
	succinct := makeSuccinct(t, ctx, list, claim)

	verified, err := ctx.VerifyIntegrity(&Receipt{Inner: &succinct}, list.Root())
	require.NoError(t, err)
	require.Equal(t, claim, verified.Claim)
	require.Equal(t, ctx.RecursionControlID(), verified.ControlID)
}

// chainClaims builds n claims where each post-state feeds the next
// pre-state and every non-final claim ends in a system split.
func chainClaims(suite core.HashSuite, n int, assumptions []core.Digest) []Claim {
	claims := make([]Claim, n)
	for i := range claims {
		claims[i] = testClaim(suite, "link")
		if i > 0 {
			claims[i].PreStateDigest = claims[i-1].PostStateDigest
		}
		claims[i].PostStateDigest = suite.Hash([]byte{byte(i)})
		if i+1 < n {
			claims[i].ExitCode = ExitCode{Kind: ExitSystemSplit}
		}
	}
	claims[n-1].Assumptions = assumptions
	return claims
}

func makeComposite(t *testing.T, ctx *VerifierContext, list *AllowList, claims []Claim, assumptions []AssumptionReceipt) CompositeReceipt {
	t.Helper()
	segments := make([]SegmentReceipt, len(claims))
	for i, c := range claims {
		segments[i] = makeSegment(t, ctx, list, c)
	}
	return CompositeReceipt{
		Segments:           segments,
		Assumptions:        assumptions,
		VerifierParameters: ctx.ParametersDigest(),
	}
}

func TestVerifyCompositeReceipt(t *testing.T) {
	ctx := newTestContext(t)
	list := defaultAllowList(t, ctx)
	claims := chainClaims(ctx.Suite(), 3, nil)
	composite := makeComposite(t, ctx, list, claims, nil)

	verified, err := ctx.VerifyIntegrity(&Receipt{Inner: &composite}, list.Root())
	require.NoError(t, err)
	require.Equal(t, claims[0].PreStateDigest, verified.Claim.PreStateDigest)
	require.Equal(t, claims[2].PostStateDigest, verified.Claim.PostStateDigest)
	require.Equal(t, claims[2].Journal, verified.Claim.Journal)
	require.Equal(t, claims[2].ExitCode, verified.Claim.ExitCode)
	require.Empty(t, verified.Claim.Assumptions)
}

func TestVerifyCompositeRejectsBrokenContinuity(t *testing.T) {
	ctx := newTestContext(t)
	list := defaultAllowList(t, ctx)
	claims := chainClaims(ctx.Suite(), 2, nil)
	claims[1].PreStateDigest = ctx.Suite().Hash([]byte("unrelated state"))
	composite := makeComposite(t, ctx, list, claims, nil)

	_, err := ctx.VerifyIntegrity(&Receipt{Inner: &composite}, list.Root())
	require.ErrorIs(t, err, core.ErrKind(core.CodeConstraint))
}

func TestVerifyCompositeRejectsEarlyHalt(t *testing.T) {
	ctx := newTestContext(t)
	list := defaultAllowList(t, ctx)
	claims := chainClaims(ctx.Suite(), 2, nil)
	claims[0].ExitCode = ExitCode{Kind: ExitHalted}
	composite := makeComposite(t, ctx, list, claims, nil)

	_, err := ctx.VerifyIntegrity(&Receipt{Inner: &composite}, list.Root())
	require.ErrorIs(t, err, core.ErrKind(core.CodeConstraint))
}

func TestVerifyCompositeDischargesAssumptions(t *testing.T) {
	ctx := newTestContext(t)
	list := defaultAllowList(t, ctx)

	assumed := testClaim(ctx.Suite(), "assumed")
	discharge := makeSuccinct(t, ctx, list, assumed)

	claims := chainClaims(ctx.Suite(), 2, []core.Digest{assumed.Digest(ctx.Suite())})
	composite := makeComposite(t, ctx, list, claims, []AssumptionReceipt{{Succinct: &discharge}})

	verified, err := ctx.VerifyIntegrity(&Receipt{Inner: &composite}, list.Root())
	require.NoError(t, err)
	require.Empty(t, verified.Claim.Assumptions)
}

func TestVerifyCompositeRejectsMissingDischarge(t *testing.T) {
	ctx := newTestContext(t)
	list := defaultAllowList(t, ctx)
	assumed := testClaim(ctx.Suite(), "assumed")
	claims := chainClaims(ctx.Suite(), 1, []core.Digest{assumed.Digest(ctx.Suite())})
	composite := makeComposite(t, ctx, list, claims, nil)

	_, err := ctx.VerifyIntegrity(&Receipt{Inner: &composite}, list.Root())
	require.ErrorIs(t, err, core.ErrKind(core.CodeAssumptionMismatch))
}

func TestVerifyCompositeRejectsIntermediateSegmentAssumption(t *testing.T) {
	ctx := newTestContext(t)
	list := defaultAllowList(t, ctx)

	assumed := testClaim(ctx.Suite(), "assumed")
	claims := chainClaims(ctx.Suite(), 2, nil)
	claims[0].Assumptions = []core.Digest{assumed.Digest(ctx.Suite())}
	composite := makeComposite(t, ctx, list, claims, nil)

	_, err := ctx.VerifyIntegrity(&Receipt{Inner: &composite}, list.Root())
	require.ErrorIs(t, err, core.ErrKind(core.CodeAssumptionMismatch))
}

func TestVerifyCompositeDischargesAssumptionsAcrossSegments(t *testing.T) {
	ctx := newTestContext(t)
	list := defaultAllowList(t, ctx)

	assumedA := testClaim(ctx.Suite(), "assumed-a")
	assumedB := testClaim(ctx.Suite(), "assumed-b")
	dischargeA := makeSuccinct(t, ctx, list, assumedA)
	dischargeB := makeSuccinct(t, ctx, list, assumedB)

	// Segment 0 records one assumption, segment 1 another; discharges must
	// follow segment order.
	claims := chainClaims(ctx.Suite(), 2, []core.Digest{assumedB.Digest(ctx.Suite())})
	claims[0].Assumptions = []core.Digest{assumedA.Digest(ctx.Suite())}

	composite := makeComposite(t, ctx, list, claims, []AssumptionReceipt{
		{Succinct: &dischargeA},
		{Succinct: &dischargeB},
	})
	verified, err := ctx.VerifyIntegrity(&Receipt{Inner: &composite}, list.Root())
	require.NoError(t, err)
	require.Empty(t, verified.Claim.Assumptions)

	swapped := makeComposite(t, ctx, list, claims, []AssumptionReceipt{
		{Succinct: &dischargeB},
		{Succinct: &dischargeA},
	})
	_, err = ctx.VerifyIntegrity(&Receipt{Inner: &swapped}, list.Root())
	require.ErrorIs(t, err, core.ErrKind(core.CodeAssumptionMismatch))
}

func TestVerifyCompositeRejectsMisorderedDischarges(t *testing.T) {
	ctx := newTestContext(t)
	list := defaultAllowList(t, ctx)

	assumedA := testClaim(ctx.Suite(), "assumed-a")
	assumedB := testClaim(ctx.Suite(), "assumed-b")
	dischargeA := makeSuccinct(t, ctx, list, assumedA)
	dischargeB := makeSuccinct(t, ctx, list, assumedB)

	claims := chainClaims(ctx.Suite(), 1, []core.Digest{
		assumedA.Digest(ctx.Suite()),
		assumedB.Digest(ctx.Suite()),
	})
	composite := makeComposite(t, ctx, list, claims, []AssumptionReceipt{
		{Succinct: &dischargeB},
		{Succinct: &dischargeA},
	})

	_, err := ctx.VerifyIntegrity(&Receipt{Inner: &composite}, list.Root())
	require.ErrorIs(t, err, core.ErrKind(core.CodeAssumptionMismatch))
}

func TestVerifyWrappedWithoutVerifier(t *testing.T) {
	ctx := newTestContext(t)
	list := defaultAllowList(t, ctx)
	wrapped := WrappedReceipt{
		Seal:               []byte{1, 2, 3},
		Claim:              testClaim(ctx.Suite(), "wrapped"),
		VerifierParameters: ctx.ParametersDigest(),
	}
	_, err := ctx.VerifyIntegrity(&Receipt{Inner: &wrapped}, list.Root())
	require.ErrorIs(t, err, core.ErrKind(core.CodeUnsupportedVariant))
}

// acceptAllWrapped accepts any seal; it stands in for an external proof
// system so the dispatch path can be tested without a real proof.
type acceptAllWrapped struct{}

func (acceptAllWrapped) ControlID(suite core.HashSuite) core.Digest {
	return suite.Hash([]byte("wrapped circuit under test"))
}

func (acceptAllWrapped) VerifyWrapped([]byte, core.Digest) error { return nil }

func TestVerifyWrappedReportsVerifierControlID(t *testing.T) {
	ctx := newTestContext(t).WithWrappedVerifier(acceptAllWrapped{})
	list := defaultAllowList(t, ctx)
	wrapped := WrappedReceipt{
		Seal:               []byte{1, 2, 3},
		Claim:              testClaim(ctx.Suite(), "wrapped"),
		VerifierParameters: ctx.ParametersDigest(),
	}

	verified, err := ctx.VerifyIntegrity(&Receipt{Inner: &wrapped}, list.Root())
	require.NoError(t, err)
	require.Equal(t, acceptAllWrapped{}.ControlID(ctx.Suite()), verified.ControlID)
	require.NotEqual(t, ctx.ParametersDigest(), verified.ControlID)
}

func TestVerifyRejectsEmptyReceipt(t *testing.T) {
	ctx := newTestContext(t)
	_, err := ctx.VerifyIntegrity(nil, core.Digest{})
	require.ErrorIs(t, err, core.ErrKind(core.CodeDecode))
	_, err = ctx.VerifyIntegrity(&Receipt{}, core.Digest{})
	require.ErrorIs(t, err, core.ErrKind(core.CodeDecode))
}
