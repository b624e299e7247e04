package services

import (
	"context"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/greekops/chapterdata/modules/roster/domain/member"
	"github.com/greekops/chapterdata/modules/roster/domain/officer"
	"github.com/greekops/chapterdata/pkg/tabular"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func mustTable(t interface{ Fatalf(string, ...any) }, csv string) *tabular.Table {
	table, err := tabular.ReadCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("failed to parse test csv: %v", err)
	}
	return table
}

type fakeMemberRepo struct {
	members map[string]*member.Member
	deleted []string

	createErr error
	updateErr error
}

func newFakeMemberRepo(seed ...*member.Member) *fakeMemberRepo {
	r := &fakeMemberRepo{members: make(map[string]*member.Member)}
	for _, m := range seed {
		r.members[m.MemberNumber] = m
	}
	return r
}

func (r *fakeMemberRepo) GetByNumber(_ context.Context, number string) (*member.Member, error) {
	m, ok := r.members[number]
	if !ok {
		return nil, member.ErrNotFound
	}
	return m, nil
}

func (r *fakeMemberRepo) GetAll(_ context.Context) ([]*member.Member, error) {
	out := make([]*member.Member, 0, len(r.members))
	for _, m := range r.members {
		out = append(out, m)
	}
	return out, nil
}

func (r *fakeMemberRepo) GetMarked(_ context.Context) ([]*member.Member, error) {
	var out []*member.Member
	for _, m := range r.members {
		if m.IsMarkedForRemoval() {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMemberRepo) Create(_ context.Context, m *member.Member) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.members[m.MemberNumber] = m
	return nil
}

func (r *fakeMemberRepo) Update(_ context.Context, m *member.Member) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.members[m.MemberNumber] = m
	return nil
}

func (r *fakeMemberRepo) Delete(_ context.Context, id uuid.UUID) error {
	for number, m := range r.members {
		if m.ID == id {
			delete(r.members, number)
			r.deleted = append(r.deleted, number)
			return nil
		}
	}
	return member.ErrNotFound
}

type fakeOfficerRepo struct {
	officers map[string]*officer.Officer
}

func newFakeOfficerRepo(seed ...*officer.Officer) *fakeOfficerRepo {
	r := &fakeOfficerRepo{officers: make(map[string]*officer.Officer)}
	for _, o := range seed {
		r.officers[o.Key()] = o
	}
	return r
}

func (r *fakeOfficerRepo) GetByKey(_ context.Context, fullName, position string) (*officer.Officer, error) {
	o, ok := r.officers[officer.Key(fullName, position)]
	if !ok {
		return nil, officer.ErrNotFound
	}
	return o, nil
}

func (r *fakeOfficerRepo) GetAll(_ context.Context) ([]*officer.Officer, error) {
	out := make([]*officer.Officer, 0, len(r.officers))
	for _, o := range r.officers {
		out = append(out, o)
	}
	return out, nil
}

func (r *fakeOfficerRepo) Create(_ context.Context, o *officer.Officer) error {
	r.officers[o.Key()] = o
	return nil
}

func (r *fakeOfficerRepo) Update(_ context.Context, o *officer.Officer) error {
	r.officers[o.Key()] = o
	return nil
}

func (r *fakeOfficerRepo) Delete(_ context.Context, id uuid.UUID) error {
	for key, o := range r.officers {
		if o.ID == id {
			delete(r.officers, key)
			return nil
		}
	}
	return officer.ErrNotFound
}
