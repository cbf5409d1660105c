package usecase

import (
	"sync"
	"time"

	"stocknotes/internal/feature/notes/domain/entity"
)

// autosaver はノートごとのデバウンス保存タイマーを管理します。
// 同一ノートへの連続編集では直前のタイマーをキャンセルしてから再設定するため、
// 静止期間後に生き残るのは最後の編集内容のみです。
type autosaver struct {
	mu      sync.Mutex
	delay   time.Duration
	pending map[string]*pendingSave
	persist func(note *entity.Note)
}

type pendingSave struct {
	timer *time.Timer
	note  *entity.Note
}

func newAutosaver(delay time.Duration, persist func(note *entity.Note)) *autosaver {
	return &autosaver{
		delay:   delay,
		pending: make(map[string]*pendingSave),
		persist: persist,
	}
}

// Schedule はnoteの保存を静止期間後に予約します。
// 同じノートの保留中の保存があればキャンセルし、スナップショットを置き換えます。
func (a *autosaver) Schedule(note *entity.Note) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if p, ok := a.pending[note.ID]; ok {
		p.timer.Stop()
	}

	p := &pendingSave{note: note}
	p.timer = time.AfterFunc(a.delay, func() {
		a.mu.Lock()
		// 発火とSchedule/TakePendingの競合に備え、自分のエントリである場合のみ削除
		if cur, ok := a.pending[note.ID]; ok && cur == p {
			delete(a.pending, note.ID)
		} else {
			a.mu.Unlock()
			return
		}
		a.mu.Unlock()
		a.persist(p.note)
	})
	a.pending[note.ID] = p
}

// TakePending は保留中の保存をキャンセルしてスナップショットを取り出します。
// 明示保存がデバウンスをバイパスするために使用します。
func (a *autosaver) TakePending(noteID string) (*entity.Note, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	p, ok := a.pending[noteID]
	if !ok {
		return nil, false
	}
	p.timer.Stop()
	delete(a.pending, noteID)
	return p.note, true
}
