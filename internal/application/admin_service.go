package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/iterator"

	"github.com/careerbridge/careerbridge-api/internal/domain"
	"github.com/careerbridge/careerbridge-api/internal/domain/entity"
	repo "github.com/careerbridge/careerbridge-api/internal/domain/repository"
	"github.com/careerbridge/careerbridge-api/pkg/mailer"
	mailtpl "github.com/careerbridge/careerbridge-api/pkg/mailer/templates"
)

// AdminService executes validated admin state transitions on an account and
// cascades them to the entities the account owns. DELETE is the only atomic
// cascade; the others are best-effort secondary writes that are safe to
// re-apply if a cascade write is lost.
type AdminService struct {
	Accounts  repo.AccountRepository
	Jobs      repo.JobPostingRepository
	Broadcast *Broadcaster
	Emails    EmailQueue
	Logger    *logrus.Logger

	ES              *elasticsearch.Client
	ESAccountsIndex string
	GCS             *storage.Client
	GCSBucket       string
}

func NewAdminService(accounts repo.AccountRepository, jobs repo.JobPostingRepository, broadcast *Broadcaster, emails EmailQueue, logger *logrus.Logger) *AdminService {
	return &AdminService{Accounts: accounts, Jobs: jobs, Broadcast: broadcast, Emails: emails, Logger: logger}
}

// Execute applies one action to the target account and returns its updated
// state. The order primary write → cascade → broadcast is fixed: a recipient
// that re-queries on notification always reads post-transition state.
func (s *AdminService) Execute(ctx context.Context, adminID, targetID string, req entity.ActionRequest) (*entity.Account, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	acct, err := s.Accounts.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}

	log := entity.NewActionLog(adminID, targetID, req)
	oldRole := acct.Role
	cascadedJobs := 0

	switch req.Type {
	case entity.ActionSuspend:
		if err := s.Accounts.SetActive(ctx, targetID, false, log); err != nil {
			return nil, err
		}
		acct.IsActive = false
		cascadedJobs = s.cascadeJobActivation(ctx, acct, false)

	case entity.ActionActivate:
		if err := s.Accounts.SetActive(ctx, targetID, true, log); err != nil {
			return nil, err
		}
		acct.IsActive = true
		cascadedJobs = s.cascadeJobActivation(ctx, acct, true)

	case entity.ActionVerify:
		if err := s.Accounts.SetVerified(ctx, targetID, log); err != nil {
			return nil, err
		}
		acct.IsVerified = true
		if acct.Role == entity.RoleCompany {
			if err := s.Accounts.SetCompanyProfileVerified(ctx, targetID, true); err != nil {
				s.Logger.WithError(err).WithField("account_id", targetID).Warn("company profile verification sync failed; re-run VERIFY to repair")
			}
		}

	case entity.ActionRoleChange:
		if err := s.Accounts.UpdateRole(ctx, targetID, req.NewRole, log); err != nil {
			return nil, err
		}
		acct.Role = req.NewRole

	case entity.ActionDelete:
		// All-or-nothing: a half-completed delete would break referential
		// integrity irrecoverably, unlike a lost flag cascade.
		if err := s.Accounts.DeleteCascade(ctx, targetID, log); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrTransactionFail, err)
		}
	}

	update := buildAffectedUpdate(acct, req, oldRole)
	if acct.Role == entity.RoleCompany && (req.Type == entity.ActionSuspend || req.Type == entity.ActionActivate) {
		update.Data["jobs_cascaded"] = cascadedJobs
	}
	s.Broadcast.Broadcast(ctx, update)

	s.notifyTargetByEmail(ctx, acct, req)
	s.syncSearchIndex(ctx, acct, req.Type)
	if req.Type == entity.ActionDelete {
		s.cleanupStoredObjects(ctx, targetID)
	}
	return acct, nil
}

// cascadeJobActivation flips every posting owned by a company account and
// returns how many postings the cascade covered. A lost write here is
// recoverable by re-running the action, so failure only warns.
func (s *AdminService) cascadeJobActivation(ctx context.Context, acct *entity.Account, active bool) int {
	if acct.Role != entity.RoleCompany {
		return 0
	}
	postings, err := s.Jobs.ListByCompanyAccount(ctx, acct.ID)
	if err != nil {
		s.Logger.WithError(err).WithField("account_id", acct.ID).Warn("job posting lookup failed; cascading without a count")
	}
	if err := s.Jobs.SetActiveByCompanyAccount(ctx, acct.ID, active); err != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{
			"account_id": acct.ID,
			"active":     active,
		}).Warn("job posting cascade failed; re-run the action to repair")
		return 0
	}
	return len(postings)
}

// buildAffectedUpdate derives "what changed and who cares" from the completed
// transition. A deleted account cannot be notified, so DELETE affects admins only.
func buildAffectedUpdate(acct *entity.Account, req entity.ActionRequest, oldRole entity.Role) entity.AffectedUpdate {
	data := map[string]any{
		"is_active":   acct.IsActive,
		"is_verified": acct.IsVerified,
		"role":        string(acct.Role),
	}
	if req.Reason != "" {
		data["reason"] = req.Reason
	}

	roles := []entity.Role{entity.RoleAdmin}
	switch req.Type {
	case entity.ActionDelete:
		// admins only
	case entity.ActionRoleChange:
		data["old_role"] = string(oldRole)
		data["new_role"] = string(req.NewRole)
		roles = appendRole(roles, oldRole)
		roles = appendRole(roles, req.NewRole)
	default:
		roles = appendRole(roles, acct.Role)
	}

	return entity.AffectedUpdate{
		Type:          req.Type,
		EntityID:      acct.ID,
		EntityType:    "account",
		Data:          data,
		AffectedRoles: roles,
	}
}

func appendRole(roles []entity.Role, r entity.Role) []entity.Role {
	for _, have := range roles {
		if have == r {
			return roles
		}
	}
	return append(roles, r)
}

var emailTemplateByAction = map[entity.ActionType]string{
	entity.ActionSuspend:    mailtpl.AccountSuspended,
	entity.ActionVerify:     mailtpl.AccountVerified,
	entity.ActionActivate:   mailtpl.AccountReactivated,
	entity.ActionRoleChange: mailtpl.RoleChanged,
}

// notifyTargetByEmail queues the transition email for the acted-upon account.
// Deleted accounts get no email; the mailbox owner is no longer a member.
func (s *AdminService) notifyTargetByEmail(ctx context.Context, acct *entity.Account, req entity.ActionRequest) {
	if s.Emails == nil || acct.Email == "" {
		return
	}
	tpl, ok := emailTemplateByAction[req.Type]
	if !ok {
		return
	}
	job := mailer.EmailJob{
		To:       acct.Email,
		Template: tpl,
		Data: mailtpl.ToMap(mailtpl.EmailData{
			Name:    acct.Name,
			Email:   acct.Email,
			Reason:  req.Reason,
			NewRole: string(req.NewRole),
		}),
	}
	if err := s.Emails.Enqueue(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("account_id", acct.ID).Warn("transition email enqueue failed")
	}
}

// syncSearchIndex keeps the admin account search consistent with the new
// state. Best-effort with a short deadline; the database remains the truth.
func (s *AdminService) syncSearchIndex(ctx context.Context, acct *entity.Account, action entity.ActionType) {
	if s.ES == nil || s.ESAccountsIndex == "" {
		return
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if action == entity.ActionDelete {
		req := esapi.DeleteRequest{Index: s.ESAccountsIndex, DocumentID: acct.ID}
		res, err := req.Do(c, s.ES)
		if err != nil {
			s.Logger.WithError(err).WithField("account_id", acct.ID).Warn("es delete failed")
			return
		}
		_ = res.Body.Close()
		return
	}

	doc := map[string]any{
		"id":          acct.ID,
		"email":       acct.Email,
		"name":        acct.Name,
		"role":        string(acct.Role),
		"is_active":   acct.IsActive,
		"is_verified": acct.IsVerified,
		"updated_at":  time.Now().UTC().Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESAccountsIndex, DocumentID: acct.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	res, err := req.Do(c, s.ES)
	if err != nil {
		s.Logger.WithError(err).WithField("account_id", acct.ID).Warn("es index failed")
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		s.Logger.WithFields(logrus.Fields{"status": res.Status(), "account_id": acct.ID}).Warn("es index response error")
	}
}

// cleanupStoredObjects removes the deleted account's uploaded files. Runs
// after the transaction committed; orphaned objects are storage cost, not a
// consistency problem.
func (s *AdminService) cleanupStoredObjects(ctx context.Context, accountID string) {
	if s.GCS == nil || s.GCSBucket == "" {
		return
	}
	bucket := s.GCS.Bucket(s.GCSBucket)
	for _, prefix := range []string{"avatars/" + accountID + "/", "resumes/" + accountID + "/"} {
		it := bucket.Objects(ctx, &storage.Query{Prefix: prefix})
		for {
			attrs, err := it.Next()
			if errors.Is(err, iterator.Done) {
				break
			}
			if err != nil {
				s.Logger.WithError(err).WithField("prefix", prefix).Warn("gcs listing failed")
				break
			}
			if err := bucket.Object(attrs.Name).Delete(ctx); err != nil {
				s.Logger.WithError(err).WithField("object", attrs.Name).Warn("gcs object delete failed")
			}
		}
	}
}
