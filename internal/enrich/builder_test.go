package enrich_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"diary-recall/internal/enrich"
	enrich_mocks "diary-recall/internal/enrich/mocks"
	"diary-recall/internal/storage"
	storage_mocks "diary-recall/internal/storage/mocks"

	"go.uber.org/mock/gomock"
)

func testEntry(id int64, entryType storage.EntryType, content string) *storage.Entry {
	return &storage.Entry{
		ID:        id,
		Date:      time.Date(2023, time.April, 1, 0, 0, 0, 0, time.UTC),
		Content:   content,
		EntryType: entryType,
	}
}

func TestBuilder_Probe(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	completer := enrich_mocks.NewMockCompleter(ctrl)
	completer.EXPECT().
		Complete(gomock.Any(), "请回复'OK'", 5, gomock.Any()).
		Return("OK", nil)

	b := enrich.NewBuilder(storage_mocks.NewMockEntryStore(ctrl), completer)
	if err := b.Probe(context.Background()); err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
}

func TestBuilder_Probe_Unreachable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	completer := enrich_mocks.NewMockCompleter(ctrl)
	completer.EXPECT().
		Complete(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", errors.New("connection refused"))

	b := enrich.NewBuilder(storage_mocks.NewMockEntryStore(ctrl), completer)
	if err := b.Probe(context.Background()); err == nil {
		t.Fatal("Probe should fail when the model server is down")
	}
}

func TestBuilder_RunAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := storage_mocks.NewMockEntryStore(ctrl)
	completer := enrich_mocks.NewMockCompleter(ctrl)

	long := strings.Repeat("这天发生了很多值得记录的事情。", 10)
	entries := []*storage.Entry{
		testEntry(1, storage.TypeSingleDay, long),
		testEntry(2, storage.TypeSingleDay, "太累了没写。"), // short, stored verbatim
		testEntry(3, storage.TypeNote, long),
	}
	store.EXPECT().ListMissingSummaries(gomock.Any()).Return(entries, nil)

	completer.EXPECT().
		Complete(gomock.Any(), gomock.Any(), 200, float32(0.3)).
		DoAndReturn(func(_ context.Context, prompt string, _ int, _ float32) (string, error) {
			if !strings.Contains(prompt, "2023-04-01") {
				t.Errorf("prompt should carry the entry date")
			}
			if !strings.Contains(prompt, "一句话摘要") {
				t.Errorf("diary entries should use the one-sentence prompt, got %q", prompt[:50])
			}
			return "这天很充实。", nil
		})
	completer.EXPECT().
		Complete(gomock.Any(), gomock.Any(), 200, float32(0.3)).
		DoAndReturn(func(_ context.Context, prompt string, _ int, _ float32) (string, error) {
			if !strings.Contains(prompt, "笔记内容") {
				t.Errorf("note entries should use the note prompt")
			}
			return "笔记要点。", nil
		})

	store.EXPECT().UpdateSummary(gomock.Any(), int64(1), "这天很充实。").Return(nil)
	store.EXPECT().UpdateSummary(gomock.Any(), int64(2), "太累了没写。").Return(nil)
	store.EXPECT().UpdateSummary(gomock.Any(), int64(3), "笔记要点。").Return(nil)

	b := enrich.NewBuilder(store, completer)
	result, err := b.RunAll(context.Background())
	if err != nil {
		t.Fatalf("RunAll failed: %v", err)
	}

	if result.Processed != 3 || result.Succeeded != 3 || result.Failed != 0 {
		t.Errorf("result = %+v, want 3 processed, 3 succeeded", result)
	}
}

func TestBuilder_RunAll_TruncatesLongEntries(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := storage_mocks.NewMockEntryStore(ctrl)
	completer := enrich_mocks.NewMockCompleter(ctrl)

	huge := strings.Repeat("记", 3000)
	store.EXPECT().ListMissingSummaries(gomock.Any()).
		Return([]*storage.Entry{testEntry(1, storage.TypeSingleDay, huge)}, nil)

	completer.EXPECT().
		Complete(gomock.Any(), gomock.Any(), 200, float32(0.3)).
		DoAndReturn(func(_ context.Context, prompt string, _ int, _ float32) (string, error) {
			if !strings.Contains(prompt, "...[中间省略]...") {
				t.Error("over-long content should be truncated with the ellipsis marker")
			}
			return "长日记。", nil
		})
	store.EXPECT().UpdateSummary(gomock.Any(), int64(1), "长日记。").Return(nil)

	b := enrich.NewBuilder(store, completer)
	if _, err := b.RunAll(context.Background()); err != nil {
		t.Fatalf("RunAll failed: %v", err)
	}
}

func TestBuilder_RunAll_StopsOnColdFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := storage_mocks.NewMockEntryStore(ctrl)
	completer := enrich_mocks.NewMockCompleter(ctrl)

	long := strings.Repeat("内容很长需要调用模型。", 5)
	entries := []*storage.Entry{
		testEntry(1, storage.TypeSingleDay, long),
		testEntry(2, storage.TypeSingleDay, long),
		testEntry(3, storage.TypeSingleDay, long),
		testEntry(4, storage.TypeSingleDay, long),
	}
	store.EXPECT().ListMissingSummaries(gomock.Any()).Return(entries, nil)

	// Three straight failures with zero successes abort the run; the fourth
	// entry must never be attempted.
	completer.EXPECT().
		Complete(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", errors.New("connection refused")).
		Times(3)

	b := enrich.NewBuilder(store, completer)
	result, err := b.RunAll(context.Background())
	if err == nil {
		t.Fatal("RunAll should abort after repeated cold failures")
	}
	if result.Processed != 3 || result.Failed != 3 {
		t.Errorf("result = %+v, want 3 processed, 3 failed", result)
	}
}

func TestBuilder_RunAll_ToleratesScatteredFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := storage_mocks.NewMockEntryStore(ctrl)
	completer := enrich_mocks.NewMockCompleter(ctrl)

	long := strings.Repeat("内容很长需要调用模型。", 5)
	entries := []*storage.Entry{
		testEntry(1, storage.TypeSingleDay, long),
		testEntry(2, storage.TypeSingleDay, long),
		testEntry(3, storage.TypeSingleDay, long),
		testEntry(4, storage.TypeSingleDay, long),
		testEntry(5, storage.TypeSingleDay, long),
	}
	store.EXPECT().ListMissingSummaries(gomock.Any()).Return(entries, nil)

	calls := 0
	completer.EXPECT().
		Complete(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string, int, float32) (string, error) {
			calls++
			if calls == 1 {
				return "摘要。", nil
			}
			if calls <= 4 {
				return "", errors.New("timeout")
			}
			return "摘要。", nil
		}).
		Times(5)

	store.EXPECT().UpdateSummary(gomock.Any(), gomock.Any(), "摘要。").Return(nil).Times(2)

	b := enrich.NewBuilder(store, completer)
	result, err := b.RunAll(context.Background())
	if err != nil {
		t.Fatalf("failures after a success should not abort: %v", err)
	}
	if result.Succeeded != 2 || result.Failed != 3 {
		t.Errorf("result = %+v, want 2 succeeded, 3 failed", result)
	}
}

func TestBuilder_RunSample(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := storage_mocks.NewMockEntryStore(ctrl)
	completer := enrich_mocks.NewMockCompleter(ctrl)

	store.EXPECT().SampleByType(gomock.Any(), storage.TypeSingleDay, 3).
		Return([]*storage.Entry{testEntry(1, storage.TypeSingleDay, "短。")}, nil)
	store.EXPECT().SampleByType(gomock.Any(), storage.TypeMultiDay, 3).Return(nil, nil)
	store.EXPECT().SampleByType(gomock.Any(), storage.TypeStockDiary, 2).Return(nil, nil)
	store.EXPECT().SampleByType(gomock.Any(), storage.TypeNote, 1).Return(nil, nil)
	store.EXPECT().SampleByType(gomock.Any(), storage.TypeRetrospective, 1).Return(nil, nil)

	store.EXPECT().UpdateSummary(gomock.Any(), int64(1), "短。").Return(nil)

	b := enrich.NewBuilder(store, completer)
	result, err := b.RunSample(context.Background())
	if err != nil {
		t.Fatalf("RunSample failed: %v", err)
	}
	if result.Succeeded != 1 {
		t.Errorf("result = %+v, want 1 succeeded", result)
	}
}

func TestBuilder_RunAll_Interrupted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := storage_mocks.NewMockEntryStore(ctrl)
	completer := enrich_mocks.NewMockCompleter(ctrl)

	store.EXPECT().ListMissingSummaries(gomock.Any()).
		Return([]*storage.Entry{testEntry(1, storage.TypeSingleDay, "短。")}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := enrich.NewBuilder(store, completer)
	if _, err := b.RunAll(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
