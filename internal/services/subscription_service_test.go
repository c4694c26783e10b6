package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/linkupapp/linkup-backend/internal/models"
)

func TestRequestAccessPublicCreatorAutoAccepts(t *testing.T) {
	db := newTestDB(t)
	svc := NewSubscriptionService(db, noCache())
	ctx := context.Background()

	alice := seedUser(t, db, "Alice", "alice@example.com")
	bob := seedUser(t, db, "Bob", "bob@example.com")
	creator := seedCreator(t, db, alice.ID, true)

	resp, err := svc.RequestAccess(ctx, bob.ID, creator.ID)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if !resp.Granted || resp.SubRequestID != nil {
		t.Errorf("expected immediate grant with no request id, got %+v", resp)
	}

	// No pending row is ever created for a public creator.
	var pending int64
	db.Model(&models.SubRequest{}).Count(&pending)
	if pending != 0 {
		t.Errorf("expected 0 pending requests, got %d", pending)
	}

	allowed, err := svc.CanReadPosts(ctx, bob.ID, creator.ID)
	if err != nil {
		t.Fatalf("access check failed: %v", err)
	}
	if !allowed {
		t.Error("expected read access after auto-accept")
	}
}

func TestRequestAccessPrivateCreatorStaysPending(t *testing.T) {
	db := newTestDB(t)
	svc := NewSubscriptionService(db, noCache())
	ctx := context.Background()

	alice := seedUser(t, db, "Alice", "alice@example.com")
	bob := seedUser(t, db, "Bob", "bob@example.com")
	creator := seedCreator(t, db, alice.ID, false)

	resp, err := svc.RequestAccess(ctx, bob.ID, creator.ID)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.Granted || resp.SubRequestID == nil {
		t.Errorf("expected pending request, got %+v", resp)
	}

	// A pending request grants nothing yet.
	allowed, err := svc.CanReadPosts(ctx, bob.ID, creator.ID)
	if err != nil {
		t.Fatalf("access check failed: %v", err)
	}
	if allowed {
		t.Error("pending request must not grant read access")
	}

	if _, err := svc.RequestAccess(ctx, bob.ID, creator.ID); !errors.Is(err, ErrDuplicatePending) {
		t.Errorf("expected ErrDuplicatePending, got %v", err)
	}
}

func TestRequestAccessEdgeCases(t *testing.T) {
	db := newTestDB(t)
	svc := NewSubscriptionService(db, noCache())
	ctx := context.Background()

	alice := seedUser(t, db, "Alice", "alice@example.com")
	creator := seedCreator(t, db, alice.ID, false)

	if _, err := svc.RequestAccess(ctx, alice.ID, creator.ID); !errors.Is(err, ErrSelfSubscription) {
		t.Errorf("expected ErrSelfSubscription, got %v", err)
	}
	if _, err := svc.RequestAccess(ctx, alice.ID, uuid.New()); !errors.Is(err, ErrCreatorNotFound) {
		t.Errorf("expected ErrCreatorNotFound, got %v", err)
	}
}

func TestResolveAcceptGrantsAccess(t *testing.T) {
	db := newTestDB(t)
	svc := NewSubscriptionService(db, noCache())
	ctx := context.Background()

	alice := seedUser(t, db, "Alice", "alice@example.com")
	bob := seedUser(t, db, "Bob", "bob@example.com")
	creator := seedCreator(t, db, alice.ID, false)

	resp, err := svc.RequestAccess(ctx, bob.ID, creator.ID)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	// Only the creator's owner can resolve.
	if err := svc.Resolve(ctx, *resp.SubRequestID, creator.ID, bob.ID, true); !errors.Is(err, ErrCreatorNotFound) {
		t.Errorf("expected ErrCreatorNotFound for non-owner, got %v", err)
	}

	if err := svc.Resolve(ctx, *resp.SubRequestID, creator.ID, alice.ID, true); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	allowed, err := svc.CanReadPosts(ctx, bob.ID, creator.ID)
	if err != nil {
		t.Fatalf("access check failed: %v", err)
	}
	if !allowed {
		t.Error("expected read access after accept")
	}

	// The request is consumed and cannot be resolved again.
	var pending int64
	db.Model(&models.SubRequest{}).Count(&pending)
	if pending != 0 {
		t.Errorf("expected request consumed, %d remain", pending)
	}
	if err := svc.Resolve(ctx, *resp.SubRequestID, creator.ID, alice.ID, true); !errors.Is(err, ErrRequestNotFound) {
		t.Errorf("expected ErrRequestNotFound on second resolve, got %v", err)
	}
}

func TestResolveDenyLeavesNoTrace(t *testing.T) {
	db := newTestDB(t)
	svc := NewSubscriptionService(db, noCache())
	ctx := context.Background()

	alice := seedUser(t, db, "Alice", "alice@example.com")
	bob := seedUser(t, db, "Bob", "bob@example.com")
	creator := seedCreator(t, db, alice.ID, false)

	resp, err := svc.RequestAccess(ctx, bob.ID, creator.ID)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if err := svc.Resolve(ctx, *resp.SubRequestID, creator.ID, alice.ID, false); err != nil {
		t.Fatalf("deny failed: %v", err)
	}

	allowed, err := svc.CanReadPosts(ctx, bob.ID, creator.ID)
	if err != nil {
		t.Fatalf("access check failed: %v", err)
	}
	if allowed {
		t.Error("denied requester must not have access")
	}
	var grants int64
	db.Model(&models.Subscriber{}).Count(&grants)
	if grants != 0 {
		t.Errorf("deny must not create a grant, found %d", grants)
	}

	// Denial is not a ban: the user may ask again.
	if _, err := svc.RequestAccess(ctx, bob.ID, creator.ID); err != nil {
		t.Errorf("re-request after deny failed: %v", err)
	}
}

func TestCanReadPostsOwnerAndStranger(t *testing.T) {
	db := newTestDB(t)
	svc := NewSubscriptionService(db, noCache())
	ctx := context.Background()

	alice := seedUser(t, db, "Alice", "alice@example.com")
	bob := seedUser(t, db, "Bob", "bob@example.com")
	creator := seedCreator(t, db, alice.ID, false)

	owner, err := svc.CanReadPosts(ctx, alice.ID, creator.ID)
	if err != nil {
		t.Fatalf("owner access check failed: %v", err)
	}
	if !owner {
		t.Error("owner must always read their own posts")
	}

	stranger, err := svc.CanReadPosts(ctx, bob.ID, creator.ID)
	if err != nil {
		t.Fatalf("stranger access check failed: %v", err)
	}
	if stranger {
		t.Error("stranger must not read a private creator's posts")
	}

	if _, err := svc.CanReadPosts(ctx, bob.ID, uuid.New()); !errors.Is(err, ErrCreatorNotFound) {
		t.Errorf("expected ErrCreatorNotFound, got %v", err)
	}
}

func TestListRequestsOwnerOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewSubscriptionService(db, noCache())
	ctx := context.Background()

	alice := seedUser(t, db, "Alice", "alice@example.com")
	bob := seedUser(t, db, "Bob", "bob@example.com")
	creator := seedCreator(t, db, alice.ID, false)

	resp, err := svc.RequestAccess(ctx, bob.ID, creator.ID)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	reqs, err := svc.ListRequests(ctx, creator.ID, alice.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(reqs) != 1 || reqs[0].UserID != bob.ID {
		t.Errorf("unexpected requests: %+v", reqs)
	}

	if _, err := svc.ListRequests(ctx, creator.ID, bob.ID); !errors.Is(err, ErrCreatorNotFound) {
		t.Errorf("expected ErrCreatorNotFound for non-owner, got %v", err)
	}

	got, err := svc.GetRequest(ctx, *resp.SubRequestID, creator.ID, alice.ID)
	if err != nil {
		t.Fatalf("get request failed: %v", err)
	}
	if got.ID != *resp.SubRequestID {
		t.Errorf("wrong request returned: %s", got.ID)
	}
	if _, err := svc.GetRequest(ctx, uuid.New(), creator.ID, alice.ID); !errors.Is(err, ErrRequestNotFound) {
		t.Errorf("expected ErrRequestNotFound, got %v", err)
	}
}

func TestSubscriberListVisibility(t *testing.T) {
	db := newTestDB(t)
	svc := NewSubscriptionService(db, noCache())
	ctx := context.Background()

	alice := seedUser(t, db, "Alice", "alice@example.com")
	bob := seedUser(t, db, "Bob", "bob@example.com")
	carol := seedUser(t, db, "Carol", "carol@example.com")
	creator := seedCreator(t, db, alice.ID, true)

	if _, err := svc.RequestAccess(ctx, bob.ID, creator.ID); err != nil {
		t.Fatalf("request failed: %v", err)
	}

	// Owner sees the list.
	subs, err := svc.ListSubscribers(ctx, alice.ID, creator.ID)
	if err != nil {
		t.Fatalf("owner list failed: %v", err)
	}
	if len(subs) != 1 || subs[0].Name != "Bob" || !subs[0].HasAccess {
		t.Errorf("unexpected subscribers: %+v", subs)
	}

	// A subscriber with an active grant sees it too.
	if _, err := svc.ListSubscribers(ctx, bob.ID, creator.ID); err != nil {
		t.Errorf("subscriber list failed: %v", err)
	}

	// Public visibility does not extend the subscriber list to strangers.
	if _, err := svc.ListSubscribers(ctx, carol.ID, creator.ID); !errors.Is(err, ErrNoAccess) {
		t.Errorf("expected ErrNoAccess for stranger, got %v", err)
	}

	sub, err := svc.GetSubscriber(ctx, alice.ID, creator.ID, subs[0].ID)
	if err != nil {
		t.Fatalf("get subscriber failed: %v", err)
	}
	if sub.Email != "bob@example.com" {
		t.Errorf("unexpected subscriber: %+v", sub)
	}
	if _, err := svc.GetSubscriber(ctx, alice.ID, creator.ID, uuid.New()); !errors.Is(err, ErrSubscriberNotFound) {
		t.Errorf("expected ErrSubscriberNotFound, got %v", err)
	}
}

func TestRemoveSubscriberRevokesAccess(t *testing.T) {
	db := newTestDB(t)
	svc := NewSubscriptionService(db, noCache())
	ctx := context.Background()

	alice := seedUser(t, db, "Alice", "alice@example.com")
	bob := seedUser(t, db, "Bob", "bob@example.com")
	creator := seedCreator(t, db, alice.ID, false)

	resp, err := svc.RequestAccess(ctx, bob.ID, creator.ID)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if err := svc.Resolve(ctx, *resp.SubRequestID, creator.ID, alice.ID, true); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	subs, err := svc.ListSubscribers(ctx, alice.ID, creator.ID)
	if err != nil || len(subs) != 1 {
		t.Fatalf("expected one subscriber, got %v (err %v)", subs, err)
	}

	// Removal is owner-only.
	if err := svc.RemoveSubscriber(ctx, subs[0].ID, creator.ID, bob.ID); !errors.Is(err, ErrCreatorNotFound) {
		t.Errorf("expected ErrCreatorNotFound for non-owner, got %v", err)
	}

	if err := svc.RemoveSubscriber(ctx, subs[0].ID, creator.ID, alice.ID); err != nil {
		t.Fatalf("remove failed: %v", err)
	}

	allowed, err := svc.CanReadPosts(ctx, bob.ID, creator.ID)
	if err != nil {
		t.Fatalf("access check failed: %v", err)
	}
	if allowed {
		t.Error("removed subscriber must lose access")
	}

	// A removed subscriber looks like one who never subscribed: the
	// request path is open again.
	if _, err := svc.RequestAccess(ctx, bob.ID, creator.ID); err != nil {
		t.Errorf("re-request after removal failed: %v", err)
	}
}
