package service

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"bridge_checker/internal/domain/entity"
)

func newExecutor(submitter *mockSubmitter) *ExecutorServiceImpl {
	svc := NewExecutorService(submitter, nopLogger{}, "0xfee", time.Millisecond)
	return svc.(*ExecutorServiceImpl)
}

func TestBuildOperations(t *testing.T) {
	exec := newExecutor(&mockSubmitter{})

	candidates := []entity.WithdrawalCandidate{
		candidate("1", "WOOD", 100),
		candidate("2", "COAL", 200),
	}
	exclusions := entity.NewExclusionSet()
	exclusions.Add("2", "COAL")

	ops := exec.BuildOperations(candidates, "0xdest", exclusions)
	if len(ops) != 1 {
		t.Fatalf("got %d operations, want 1", len(ops))
	}
	op := ops[0]
	if op.EntityID != "1" || op.ResourceName != "WOOD" {
		t.Errorf("wrong operation kept: %+v", op)
	}
	if op.ToAddress != "0xdest" || op.FeeRecipient != "0xfee" {
		t.Errorf("addresses = to:%s fee:%s", op.ToAddress, op.FeeRecipient)
	}
	if op.Amount.Int64() != 100 {
		t.Errorf("Amount = %s", op.Amount)
	}

	// Operation amounts are copies; mutating one must not reach the candidate.
	op.Amount.SetInt64(0)
	if candidates[0].Amount.Int64() != 100 {
		t.Error("BuildOperations aliased the candidate amount")
	}
}

func TestBuildOperationsNilExclusions(t *testing.T) {
	exec := newExecutor(&mockSubmitter{})
	ops := exec.BuildOperations([]entity.WithdrawalCandidate{candidate("1", "WOOD", 1)}, "0xdest", nil)
	if len(ops) != 1 {
		t.Fatalf("got %d operations, want 1", len(ops))
	}
}

func TestExecuteBatchesAllSucceed(t *testing.T) {
	n := 0
	submitter := &mockSubmitter{submit: func(ops []entity.WithdrawalOperation) (string, error) {
		n++
		return "0xtx" + string(rune('0'+n)), nil
	}}
	exec := newExecutor(submitter)

	batches := []entity.Batch{
		{Operations: []entity.WithdrawalOperation{op("1", 3), op("2", 2)}},
		{Operations: []entity.WithdrawalOperation{op("1", 2)}},
	}
	summary := exec.ExecuteBatches(context.Background(), batches)

	if len(summary.TxHashes) != 2 {
		t.Fatalf("got %d tx hashes, want 2", len(summary.TxHashes))
	}
	if summary.SuccessCount != 3 || summary.FailureCount != 0 || summary.TotalPlanned != 3 {
		t.Errorf("summary = %+v", summary)
	}
	if summary.AbortedEarly {
		t.Error("AbortedEarly must be false on full success")
	}
	if len(summary.PerBatch) != 2 || summary.PerBatch[1].TxHash == "" {
		t.Errorf("PerBatch = %+v", summary.PerBatch)
	}
}

func TestExecuteBatchesStopsOnFailure(t *testing.T) {
	n := 0
	submitter := &mockSubmitter{submit: func(ops []entity.WithdrawalOperation) (string, error) {
		n++
		if n == 2 {
			return "", errors.New("execution reverted: Insufficient Balance: WOOD (id: 1001, balance: 500) < 1500")
		}
		return "0xtx1", nil
	}}
	exec := newExecutor(submitter)

	batches := []entity.Batch{
		{Operations: []entity.WithdrawalOperation{op("1", 3)}},
		{Operations: []entity.WithdrawalOperation{op("2", 3)}},
		{Operations: []entity.WithdrawalOperation{op("3", 3)}},
	}
	summary := exec.ExecuteBatches(context.Background(), batches)

	if len(submitter.submitCalls) != 2 {
		t.Fatalf("submitted %d batches, want 2 (third skipped)", len(submitter.submitCalls))
	}
	if !summary.AbortedEarly {
		t.Error("AbortedEarly must be set when later batches are skipped")
	}
	if summary.SuccessCount != 1 || summary.FailureCount != 1 {
		t.Errorf("counts = success:%d failure:%d", summary.SuccessCount, summary.FailureCount)
	}
	// Confirmed work before the failure is still reported.
	if len(summary.TxHashes) != 1 || summary.TxHashes[0] != "0xtx1" {
		t.Errorf("TxHashes = %v", summary.TxHashes)
	}

	if len(summary.Failures) != 1 {
		t.Fatalf("Failures = %+v", summary.Failures)
	}
	f := summary.Failures[0]
	if !f.Structured || f.ResourceName != "WOOD" || f.EntityID != "1001" {
		t.Errorf("failure not parsed: %+v", f)
	}
}

func TestExecuteBatchesUnparseableFailure(t *testing.T) {
	submitter := &mockSubmitter{submit: func(ops []entity.WithdrawalOperation) (string, error) {
		return "", errors.New("nonce too low")
	}}
	exec := newExecutor(submitter)

	summary := exec.ExecuteBatches(context.Background(), []entity.Batch{
		{Operations: []entity.WithdrawalOperation{op("1", 3)}},
	})
	if len(summary.Failures) != 1 {
		t.Fatalf("Failures = %+v", summary.Failures)
	}
	f := summary.Failures[0]
	if f.Structured {
		t.Error("unknown message must degrade to unstructured failure")
	}
	if f.Reason != "nonce too low" {
		t.Errorf("Reason = %q", f.Reason)
	}
}

func TestExecuteIndividuallySkipsFailedSimulations(t *testing.T) {
	submitter := &mockSubmitter{
		estimate: func(ops []entity.WithdrawalOperation) error {
			if ops[0].ResourceName == "COAL" {
				return errors.New("Insufficient Balance: COAL (id: 7, balance: 1) < 2")
			}
			return nil
		},
	}
	exec := newExecutor(submitter)

	ops := []entity.WithdrawalOperation{op("7", 2), op("7", 3), op("8", 1)}
	summary := exec.ExecuteIndividually(context.Background(), ops)

	if summary.SuccessCount != 2 || summary.FailureCount != 1 {
		t.Errorf("counts = success:%d failure:%d", summary.SuccessCount, summary.FailureCount)
	}
	// The failed simulation must never reach submission.
	if len(submitter.submitCalls) != 2 {
		t.Errorf("submitted %d operations, want 2", len(submitter.submitCalls))
	}
	if len(summary.PerOperation) != 3 {
		t.Fatalf("PerOperation = %+v", summary.PerOperation)
	}
	if summary.PerOperation[0].State != entity.OpSimulationFailed {
		t.Errorf("state = %s, want %s", summary.PerOperation[0].State, entity.OpSimulationFailed)
	}
	for _, o := range summary.PerOperation[1:] {
		if o.State != entity.OpConfirmed || o.TxHash == "" {
			t.Errorf("outcome = %+v", o)
		}
	}
}

func TestExecuteIndividuallySubmitFailureDoesNotBlockRest(t *testing.T) {
	n := 0
	submitter := &mockSubmitter{submit: func(ops []entity.WithdrawalOperation) (string, error) {
		n++
		if n == 1 {
			return "", errors.New("rpc timeout")
		}
		return "0xtx", nil
	}}
	exec := newExecutor(submitter)

	summary := exec.ExecuteIndividually(context.Background(), []entity.WithdrawalOperation{
		op("1", 3), op("2", 2),
	})
	if summary.SuccessCount != 1 || summary.FailureCount != 1 {
		t.Errorf("counts = success:%d failure:%d", summary.SuccessCount, summary.FailureCount)
	}
	if summary.PerOperation[0].State != entity.OpFailed {
		t.Errorf("state = %s", summary.PerOperation[0].State)
	}
	if summary.PerOperation[1].State != entity.OpConfirmed {
		t.Errorf("state = %s", summary.PerOperation[1].State)
	}
}

func TestParseFailureGrammar(t *testing.T) {
	exec := newExecutor(&mockSubmitter{})

	f := exec.parseFailure(errors.New(
		"Transaction reverted: Insufficient Balance: EARTHEN_SHARD (id: 42, balance: 99) < 100"))
	if !f.Structured {
		t.Fatal("expected structured failure")
	}
	if f.ResourceName != "EARTHEN_SHARD" || f.EntityID != "42" {
		t.Errorf("parsed = %+v", f)
	}

	f = exec.parseFailure(errors.New("Insufficient Balance: wood (id: 1, balance: 2) < 3"))
	if f.Structured {
		t.Error("lower-case resource name must not match the grammar")
	}
}

func TestBuildOperationsZeroAmountCandidate(t *testing.T) {
	exec := newExecutor(&mockSubmitter{})
	c := candidate("1", "WOOD", 0)
	c.Amount = nil
	ops := exec.BuildOperations([]entity.WithdrawalCandidate{c}, "0xdest", entity.NewExclusionSet())
	if len(ops) != 1 || ops[0].Amount == nil || ops[0].Amount.Cmp(big.NewInt(0)) != 0 {
		t.Errorf("nil amount must build as zero: %+v", ops)
	}
}
