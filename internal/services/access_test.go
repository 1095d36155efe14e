package services

import (
	"testing"

	"github.com/google/uuid"

	types "github.com/coursekit/coursekit-backend/internal/domain"
	"github.com/coursekit/coursekit-backend/internal/platform/ctxutil"
)

func TestDecideMediaAccess(t *testing.T) {
	ownerID := uuid.New()
	instructorID := uuid.New()
	studentID := uuid.New()
	strangerID := uuid.New()
	courseID := uuid.New()

	course := &types.Course{ID: courseID, InstructorID: instructorID}
	gated := &types.MediaObject{ID: uuid.New(), UploadedBy: ownerID, CourseID: &courseID}
	public := &types.MediaObject{ID: uuid.New(), UploadedBy: ownerID, CourseID: &courseID, IsPublic: true}
	orphan := &types.MediaObject{ID: uuid.New(), UploadedBy: ownerID}

	active := &types.Enrollment{UserID: studentID, CourseID: courseID, Status: types.EnrollmentActive}
	cancelled := &types.Enrollment{UserID: studentID, CourseID: courseID, Status: types.EnrollmentCancelled}

	viewer := func(id uuid.UUID, role string) *ctxutil.RequestData {
		return &ctxutil.RequestData{UserID: id, Role: role}
	}

	cases := []struct {
		name    string
		in      mediaAccessInput
		allowed bool
		reason  string
	}{
		{
			name:    "public object allows anonymous",
			in:      mediaAccessInput{object: public},
			allowed: true,
			reason:  AccessPublic,
		},
		{
			name: "public wins over other grants",
			in:   mediaAccessInput{object: public, viewer: viewer(ownerID, types.RoleInstructor), course: course},
			allowed: true,
			reason:  AccessPublic,
		},
		{
			name:    "free preview allows anonymous",
			in:      mediaAccessInput{object: gated, hasFreePreview: true},
			allowed: true,
			reason:  AccessFreePreview,
		},
		{
			name:    "anonymous gated is told to authenticate",
			in:      mediaAccessInput{object: gated},
			allowed: false,
			reason:  AccessAuthRequired,
		},
		{
			name:    "owner allowed",
			in:      mediaAccessInput{object: gated, viewer: viewer(ownerID, types.RoleInstructor), course: course},
			allowed: true,
			reason:  AccessOwner,
		},
		{
			name:    "admin allowed",
			in:      mediaAccessInput{object: gated, viewer: viewer(strangerID, types.RoleAdmin), course: course},
			allowed: true,
			reason:  AccessAdmin,
		},
		{
			name:    "active enrollment allowed",
			in:      mediaAccessInput{object: gated, viewer: viewer(studentID, types.RoleStudent), course: course, enrollment: active},
			allowed: true,
			reason:  AccessEnrolled,
		},
		{
			name:    "cancelled enrollment denied",
			in:      mediaAccessInput{object: gated, viewer: viewer(studentID, types.RoleStudent), course: course, enrollment: cancelled},
			allowed: false,
			reason:  AccessNotAuthorized,
		},
		{
			name:    "course instructor allowed without enrollment",
			in:      mediaAccessInput{object: gated, viewer: viewer(instructorID, types.RoleInstructor), course: course},
			allowed: true,
			reason:  AccessInstructor,
		},
		{
			name:    "authenticated stranger denied",
			in:      mediaAccessInput{object: gated, viewer: viewer(strangerID, types.RoleStudent), course: course},
			allowed: false,
			reason:  AccessNotAuthorized,
		},
		{
			name:    "orphan object only owner and admin",
			in:      mediaAccessInput{object: orphan, viewer: viewer(strangerID, types.RoleStudent)},
			allowed: false,
			reason:  AccessNotAuthorized,
		},
		{
			name:    "missing object denied",
			in:      mediaAccessInput{},
			allowed: false,
			reason:  AccessNotAuthorized,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := decideMediaAccess(tc.in)
			if got.Allowed != tc.allowed || got.Reason != tc.reason {
				t.Fatalf("decideMediaAccess = {%v %q}, want {%v %q}", got.Allowed, got.Reason, tc.allowed, tc.reason)
			}
		})
	}
}

func TestDecideCourseAccess(t *testing.T) {
	instructorID := uuid.New()
	studentID := uuid.New()
	course := &types.Course{ID: uuid.New(), InstructorID: instructorID}

	if got := decideCourseAccess(course, nil, nil); got.Allowed || got.Reason != AccessAuthRequired {
		t.Fatalf("anonymous: got {%v %q}", got.Allowed, got.Reason)
	}

	admin := &ctxutil.RequestData{UserID: uuid.New(), Role: types.RoleAdmin}
	if got := decideCourseAccess(course, admin, nil); !got.Allowed || got.Reason != AccessAdmin {
		t.Fatalf("admin: got {%v %q}", got.Allowed, got.Reason)
	}

	instructor := &ctxutil.RequestData{UserID: instructorID, Role: types.RoleInstructor}
	if got := decideCourseAccess(course, instructor, nil); !got.Allowed || got.Reason != AccessInstructor {
		t.Fatalf("instructor: got {%v %q}", got.Allowed, got.Reason)
	}

	student := &ctxutil.RequestData{UserID: studentID, Role: types.RoleStudent}
	enrollment := &types.Enrollment{UserID: studentID, CourseID: course.ID, Status: types.EnrollmentActive}
	if got := decideCourseAccess(course, student, enrollment); !got.Allowed || got.Reason != AccessEnrolled {
		t.Fatalf("enrolled: got {%v %q}", got.Allowed, got.Reason)
	}

	if got := decideCourseAccess(course, student, nil); got.Allowed || got.Reason != AccessNotAuthorized {
		t.Fatalf("unenrolled: got {%v %q}", got.Allowed, got.Reason)
	}
}
