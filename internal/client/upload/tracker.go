package upload

import "sync"

// SelectedFile is the file handle fed into the machine by the picker or a
// drop event. Only the name and size matter here; the bytes are streamed by
// the transport layer at submit time.
type SelectedFile struct {
	Name string
	Size int64
}

// Tracker manages exactly one in-flight upload attempt.
//
// Every mutating call is guarded by a generation counter: Begin returns the
// generation of the attempt it started, and progress or terminal transitions
// carrying a stale generation are ignored. This is what lets a late-arriving
// response from an abandoned attempt (the surface was reset meanwhile) die
// silently instead of corrupting the next attempt's state.
type Tracker struct {
	mu    sync.Mutex
	state State
	file  *SelectedFile

	// form values staged for the next submit
	password       string
	expirationDays int

	gen int
}

// NewTracker returns an idle tracker with default form values.
func NewTracker() *Tracker {
	return &Tracker{
		state:          State{Status: StatusIdle},
		expirationDays: MaxExpirationDays,
	}
}

// State returns a copy of the current state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// File returns the currently selected file, or nil.
func (t *Tracker) File() *SelectedFile {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.file == nil {
		return nil
	}
	f := *t.file
	return &f
}

// Form returns the staged password and expiration days.
func (t *Tracker) Form() (password string, expirationDays int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.password, t.expirationDays
}

// SetForm stages the password and expiration for the next submit. Values are
// stored as-is; validity is judged by CanUpload and Begin.
func (t *Tracker) SetForm(password string, expirationDays int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.password = password
	t.expirationDays = expirationDays
}

// SelectFile validates and stages a file. An oversized file transitions
// directly to the error state with MsgFileTooLarge and clears the selection,
// so no network call can follow. A valid selection resets the machine to
// idle, discarding any previous terminal state. While an attempt is
// uploading the selection is refused, keeping the in-flight state intact.
func (t *Tracker) SelectFile(f SelectedFile) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state.Status == StatusUploading {
		return
	}

	if f.Size > MaxFileSize {
		t.file = nil
		t.state = State{Status: StatusError, Message: MsgFileTooLarge}
		return
	}

	t.file = &f
	t.state = State{Status: StatusIdle}
}

// formValid reports whether the staged form values pass validation.
// Callers must hold t.mu.
func (t *Tracker) formValid() bool {
	return ValidatePassword(t.password) == nil && ValidateExpirationDays(t.expirationDays) == nil
}

// CanUpload is the submit guard: a file is selected, the machine is idle,
// and the form is valid. While an attempt is uploading this is false, which
// makes a second submit a no-op.
func (t *Tracker) CanUpload() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.file != nil && t.state.Status == StatusIdle && t.formValid()
}

// Begin transitions idle -> uploading(0) and returns the generation of the
// started attempt. When the guard refuses (no file, not idle, invalid form)
// it returns ok=false and the machine is unchanged.
func (t *Tracker) Begin() (gen int, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.file == nil || t.state.Status != StatusIdle || !t.formValid() {
		return 0, false
	}

	t.gen++
	t.state = State{Status: StatusUploading, Progress: 0}
	return t.gen, true
}

// Progress records a percentage update for the given attempt. Updates are
// clamped to be monotonically non-decreasing within [0,100]; stale
// generations and non-uploading states are ignored.
func (t *Tracker) Progress(gen, pct int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if gen != t.gen || t.state.Status != StatusUploading {
		return
	}
	if pct < t.state.Progress {
		return
	}
	if pct > 100 {
		pct = 100
	}
	t.state.Progress = pct
}

// Succeed moves the attempt to the success terminal state carrying the
// download URL returned by the server verbatim.
func (t *Tracker) Succeed(gen int, downloadURL string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if gen != t.gen || t.state.Status != StatusUploading {
		return
	}
	t.state = State{Status: StatusSuccess, Progress: 100, DownloadURL: downloadURL}
}

// Fail moves the attempt to the error terminal state with a user-facing
// message (never a raw error).
func (t *Tracker) Fail(gen int, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if gen != t.gen || t.state.Status != StatusUploading {
		return
	}
	t.state = State{Status: StatusError, Message: message}
}

// Reset unconditionally returns the machine to idle, clearing the selected
// file and the staged form values. Any in-flight attempt is orphaned: its
// generation can no longer match, so late results are dropped. This is what
// prevents a stale password or expiration from leaking into the next attempt.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.gen++
	t.file = nil
	t.password = ""
	t.expirationDays = MaxExpirationDays
	t.state = State{Status: StatusIdle}
}
