package db

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func createTestUser(t *testing.T, d *DB, username string) *User {
	t.Helper()
	user, err := d.CreateUser(username, username+"@example.com", username, "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func TestOpen_RunsMigrations(t *testing.T) {
	d := openTestDB(t)

	version, err := d.CurrentVersion()
	if err != nil {
		t.Fatalf("current version: %v", err)
	}
	if version < 1 {
		t.Errorf("schema version = %d, want >= 1", version)
	}
}

func TestUsers_CreateAndLookup(t *testing.T) {
	d := openTestDB(t)

	created := createTestUser(t, d, "stu")
	if created.ID == "" {
		t.Fatalf("created user has no id")
	}
	if !created.IsVerified {
		t.Errorf("new accounts should be verified")
	}

	byEmail, err := d.GetUserByEmail("stu@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if byEmail == nil || byEmail.ID != created.ID {
		t.Errorf("GetUserByEmail = %+v, want id %s", byEmail, created.ID)
	}

	byUsername, err := d.GetUserByUsername("stu")
	if err != nil {
		t.Fatalf("get by username: %v", err)
	}
	if byUsername == nil || byUsername.ID != created.ID {
		t.Errorf("GetUserByUsername = %+v, want id %s", byUsername, created.ID)
	}

	missing, err := d.GetUserByEmail("nobody@example.com")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown email, got %+v", missing)
	}
}

func TestUsers_EmailIsCaseInsensitive(t *testing.T) {
	d := openTestDB(t)
	createTestUser(t, d, "stu")

	user, err := d.GetUserByEmail("STU@EXAMPLE.COM")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if user == nil {
		t.Errorf("case-folded email lookup failed")
	}

	exists, err := d.UserExists("STU@example.com", "other")
	if err != nil {
		t.Fatalf("user exists: %v", err)
	}
	if !exists {
		t.Errorf("UserExists should match email case-insensitively")
	}
}

func TestUsers_DuplicateEmailRejected(t *testing.T) {
	d := openTestDB(t)
	createTestUser(t, d, "stu")

	if _, err := d.CreateUser("other", "stu@example.com", "other", "hash"); err == nil {
		t.Errorf("expected unique constraint violation for duplicate email")
	}
}

func TestSessions_Lifecycle(t *testing.T) {
	d := openTestDB(t)
	user := createTestUser(t, d, "stu")

	if _, err := d.CreateSession("tok1", user.ID, time.Hour); err != nil {
		t.Fatalf("create session: %v", err)
	}

	session, err := d.GetSession("tok1")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if session == nil || session.UserID != user.ID {
		t.Fatalf("GetSession = %+v, want user %s", session, user.ID)
	}

	if err := d.DeleteSession("tok1"); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	session, err = d.GetSession("tok1")
	if err != nil {
		t.Fatalf("get deleted session: %v", err)
	}
	if session != nil {
		t.Errorf("expected nil after delete, got %+v", session)
	}
}

func TestSessions_ExpiredIsInvisible(t *testing.T) {
	d := openTestDB(t)
	user := createTestUser(t, d, "stu")

	if _, err := d.CreateSession("expired", user.ID, -time.Minute); err != nil {
		t.Fatalf("create session: %v", err)
	}
	if _, err := d.CreateSession("live", user.ID, time.Hour); err != nil {
		t.Fatalf("create session: %v", err)
	}

	session, err := d.GetSession("expired")
	if err != nil {
		t.Fatalf("get expired session: %v", err)
	}
	if session != nil {
		t.Errorf("expired session still visible: %+v", session)
	}

	swept, err := d.DeleteExpiredSessions()
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if swept != 1 {
		t.Errorf("swept %d sessions, want 1", swept)
	}

	live, err := d.GetSession("live")
	if err != nil {
		t.Fatalf("get live session: %v", err)
	}
	if live == nil {
		t.Errorf("live session removed by the sweep")
	}
}

func TestDocuments_ListKeepsInsertionOrder(t *testing.T) {
	d := openTestDB(t)
	user := createTestUser(t, d, "stu")

	for _, id := range []string{"doc-a", "doc-b", "doc-c"} {
		if _, err := d.CreateDocument(id, user.ID, "Title "+id, 3); err != nil {
			t.Fatalf("create document %s: %v", id, err)
		}
	}

	docs, err := d.ListDocuments(user.ID)
	if err != nil {
		t.Fatalf("list documents: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("len = %d, want 3", len(docs))
	}
	for i, want := range []string{"doc-a", "doc-b", "doc-c"} {
		if docs[i].ID != want {
			t.Errorf("docs[%d].ID = %s, want %s", i, docs[i].ID, want)
		}
	}
}

func TestDocuments_ScopedToOwner(t *testing.T) {
	d := openTestDB(t)
	alice := createTestUser(t, d, "alice")
	bob := createTestUser(t, d, "bob")

	if _, err := d.CreateDocument("doc-a", alice.ID, "Alice's", 1); err != nil {
		t.Fatalf("create document: %v", err)
	}

	doc, err := d.GetDocument("doc-a", bob.ID)
	if err != nil {
		t.Fatalf("get document: %v", err)
	}
	if doc != nil {
		t.Errorf("document visible to non-owner: %+v", doc)
	}

	docs, err := d.ListDocuments(bob.ID)
	if err != nil {
		t.Fatalf("list documents: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("non-owner list = %v, want empty", docs)
	}
}

func TestChatMessages_RoundTrip(t *testing.T) {
	d := openTestDB(t)
	user := createTestUser(t, d, "stu")
	if _, err := d.CreateDocument("doc-a", user.ID, "Doc", 5); err != nil {
		t.Fatalf("create document: %v", err)
	}

	if _, err := d.AppendChatMessage("doc-a", user.ID, RoleUser, "question", nil); err != nil {
		t.Fatalf("append user message: %v", err)
	}
	if _, err := d.AppendChatMessage("doc-a", user.ID, RoleAssistant, "answer", []int{2, 4}); err != nil {
		t.Fatalf("append assistant message: %v", err)
	}

	messages, err := d.ListChatMessages("doc-a")
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("len = %d, want 2", len(messages))
	}
	if messages[0].Role != RoleUser || messages[1].Role != RoleAssistant {
		t.Errorf("messages out of order: %+v", messages)
	}
	if len(messages[1].SourcePages) != 2 || messages[1].SourcePages[1] != 4 {
		t.Errorf("SourcePages = %v, want [2 4]", messages[1].SourcePages)
	}
	if messages[0].SourcePages != nil {
		t.Errorf("user message SourcePages = %v, want nil", messages[0].SourcePages)
	}
}

func TestChatMessages_DeletedWithDocument(t *testing.T) {
	d := openTestDB(t)
	user := createTestUser(t, d, "stu")
	if _, err := d.CreateDocument("doc-a", user.ID, "Doc", 5); err != nil {
		t.Fatalf("create document: %v", err)
	}
	if _, err := d.AppendChatMessage("doc-a", user.ID, RoleUser, "question", nil); err != nil {
		t.Fatalf("append message: %v", err)
	}

	if err := d.DeleteDocument("doc-a", user.ID); err != nil {
		t.Fatalf("delete document: %v", err)
	}

	messages, err := d.ListChatMessages("doc-a")
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(messages) != 0 {
		t.Errorf("transcript survived document deletion: %v", messages)
	}
}

func TestNotes_CRUD(t *testing.T) {
	d := openTestDB(t)
	user := createTestUser(t, d, "stu")

	note, err := d.CreateNote(user.ID, "Biology", "photosynthesis")
	if err != nil {
		t.Fatalf("create note: %v", err)
	}

	updated, err := d.UpdateNote(note.ID, user.ID, "Biology II", "chlorophyll")
	if err != nil {
		t.Fatalf("update note: %v", err)
	}
	if !updated {
		t.Fatalf("UpdateNote reported no rows affected")
	}

	got, err := d.GetNote(note.ID, user.ID)
	if err != nil {
		t.Fatalf("get note: %v", err)
	}
	if got == nil || got.Title != "Biology II" || got.Content != "chlorophyll" {
		t.Errorf("GetNote = %+v", got)
	}

	deleted, err := d.DeleteNote(note.ID, user.ID)
	if err != nil {
		t.Fatalf("delete note: %v", err)
	}
	if !deleted {
		t.Errorf("DeleteNote reported no rows affected")
	}

	deleted, err = d.DeleteNote(note.ID, user.ID)
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if deleted {
		t.Errorf("second delete reported rows affected")
	}
}

func TestNotes_OwnershipEnforced(t *testing.T) {
	d := openTestDB(t)
	alice := createTestUser(t, d, "alice")
	bob := createTestUser(t, d, "bob")

	note, err := d.CreateNote(alice.ID, "Private", "secret")
	if err != nil {
		t.Fatalf("create note: %v", err)
	}

	updated, err := d.UpdateNote(note.ID, bob.ID, "Hacked", "x")
	if err != nil {
		t.Fatalf("update note: %v", err)
	}
	if updated {
		t.Errorf("non-owner updated the note")
	}
}

func TestStudySessions_DurationAndOrder(t *testing.T) {
	d := openTestDB(t)
	user := createTestUser(t, d, "stu")

	base := NowMs()
	if _, err := d.CreateStudySession(user.ID, ModeFocus, base, base+1500_000); err != nil {
		t.Fatalf("create study session: %v", err)
	}
	if _, err := d.CreateStudySession(user.ID, ModeBreak, base+1500_000, base+1800_000); err != nil {
		t.Fatalf("create study session: %v", err)
	}

	sessions, err := d.ListStudySessions(user.ID)
	if err != nil {
		t.Fatalf("list study sessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("len = %d, want 2", len(sessions))
	}
	if sessions[0].Mode != ModeFocus || sessions[0].DurationSeconds != 1500 {
		t.Errorf("sessions[0] = %+v, want focus 1500s", sessions[0])
	}
	if sessions[1].Mode != ModeBreak || sessions[1].DurationSeconds != 300 {
		t.Errorf("sessions[1] = %+v, want break 300s", sessions[1])
	}
}
