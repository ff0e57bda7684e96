package devserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/yogastudio/yoga/pkg/check"
	"github.com/yogastudio/yoga/pkg/model"
)

// RegisterAPIHandler registers every /api route on e.
func (s *Server) RegisterAPIHandler(e *echo.Echo) {
	authGroup := e.Group("/api/auth")
	authGroup.POST("/login", route(s.postLogin))
	authGroup.POST("/register", route(s.postRegister))

	sessionGroup := e.Group("/api/session", s.processAuthentication)
	sessionGroup.GET("", route(s.getSessions))
	sessionGroup.POST("", route(s.postSession))
	sessionGroup.GET("/:id", route(s.getSession))
	sessionGroup.PUT("/:id", route(s.putSession))
	sessionGroup.DELETE("/:id", route(s.deleteSession))
	sessionGroup.POST("/:id/participate/:user_id", route(s.postParticipation))
	sessionGroup.DELETE("/:id/participate/:user_id", route(s.deleteParticipation))

	teacherGroup := e.Group("/api/teacher", s.processAuthentication)
	teacherGroup.GET("", route(s.getTeachers))
	teacherGroup.GET("/:id", route(s.getTeacher))

	userGroup := e.Group("/api/user", s.processAuthentication)
	userGroup.GET("/:id", route(s.getUser))
	userGroup.DELETE("/:id", route(s.deleteUser))
}

// loginResponse is the JwtResponse of the backend: "username" carries the email.
type loginResponse struct {
	Token     string       `json:"token"`
	Type      string       `json:"type"`
	ID        model.UserID `json:"id"`
	Username  string       `json:"username"`
	FirstName string       `json:"firstName"`
	LastName  string       `json:"lastName"`
	Admin     bool         `json:"admin"`
}

func (s *Server) postLogin(c *DevContext) (interface{}, error) {
	var params model.LoginRequest
	if err := c.Bind(&params); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest)
	}

	badCredentialsError := echo.NewHTTPError(http.StatusUnauthorized, "Error: Unauthorized")
	user, ok := s.store.authenticate(params.Email, params.Password)
	if !ok {
		return nil, badCredentialsError
	}

	token, err := s.tokens.issue(user.Email)
	if err != nil {
		return nil, err
	}
	return loginResponse{
		Token:     token,
		Type:      "Bearer",
		ID:        user.ID,
		Username:  user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Admin:     user.Admin,
	}, nil
}

func (s *Server) postRegister(c *DevContext) (interface{}, error) {
	var params model.RegisterRequest
	if err := c.Bind(&params); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest)
	}
	if err := check.Validate(params); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	_, err := s.store.addUser(model.User{
		Email:     params.Email,
		FirstName: params.FirstName,
		LastName:  params.LastName,
	}, params.Password)
	if errors.Is(err, ErrInvalid) {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Error: Email is already taken!")
	} else if err != nil {
		return nil, err
	}
	return model.MessageResponse{Message: "User registered successfully!"}, nil
}

type sessionArgs struct {
	ID model.SessionID `path:"id"`
}

type participationArgs struct {
	ID     model.SessionID `path:"id"`
	UserID model.UserID    `path:"user_id"`
}

func (s *Server) getSessions(c *DevContext) (interface{}, error) {
	return s.store.listSessions(), nil
}

func (s *Server) getSession(c *DevContext) (interface{}, error) {
	var args sessionArgs
	if err := BindArgs(&args, c); err != nil {
		return nil, err
	}
	return s.store.session(args.ID)
}

func (s *Server) bindDraft(c *DevContext) (model.SessionDraft, []model.UserID, error) {
	// The backend accepts a full session body; id and timestamps are ignored.
	var body struct {
		model.SessionDraft
		Users []model.UserID `json:"users"`
	}
	if err := c.Bind(&body); err != nil {
		return model.SessionDraft{}, nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := check.Validate(body.SessionDraft); err != nil {
		return model.SessionDraft{}, nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return body.SessionDraft, body.Users, nil
}

func (s *Server) postSession(c *DevContext) (interface{}, error) {
	draft, users, err := s.bindDraft(c)
	if err != nil {
		return nil, err
	}
	created, err := s.store.createSession(draft, users)
	if err != nil {
		return nil, err
	}
	s.log.WithField("session", created.ID).Info("session created")
	return created, nil
}

func (s *Server) putSession(c *DevContext) (interface{}, error) {
	var args sessionArgs
	if err := BindArgs(&args, c); err != nil {
		return nil, err
	}
	draft, _, err := s.bindDraft(c)
	if err != nil {
		return nil, err
	}
	return s.store.updateSession(args.ID, draft)
}

func (s *Server) deleteSession(c *DevContext) (interface{}, error) {
	var args sessionArgs
	if err := BindArgs(&args, c); err != nil {
		return nil, err
	}
	return nil, s.store.deleteSession(args.ID)
}

func (s *Server) postParticipation(c *DevContext) (interface{}, error) {
	var args participationArgs
	if err := BindArgs(&args, c); err != nil {
		return nil, err
	}
	return nil, s.store.participate(args.ID, args.UserID)
}

func (s *Server) deleteParticipation(c *DevContext) (interface{}, error) {
	var args participationArgs
	if err := BindArgs(&args, c); err != nil {
		return nil, err
	}
	return nil, s.store.noLongerParticipate(args.ID, args.UserID)
}

type teacherArgs struct {
	ID model.TeacherID `path:"id"`
}

func (s *Server) getTeachers(c *DevContext) (interface{}, error) {
	return s.store.listTeachers(), nil
}

func (s *Server) getTeacher(c *DevContext) (interface{}, error) {
	var args teacherArgs
	if err := BindArgs(&args, c); err != nil {
		return nil, err
	}
	return s.store.teacher(args.ID)
}

type userArgs struct {
	ID model.UserID `path:"id"`
}

func (s *Server) getUser(c *DevContext) (interface{}, error) {
	var args userArgs
	if err := BindArgs(&args, c); err != nil {
		return nil, err
	}
	return s.store.user(args.ID)
}

func (s *Server) deleteUser(c *DevContext) (interface{}, error) {
	var args userArgs
	if err := BindArgs(&args, c); err != nil {
		return nil, err
	}
	target, err := s.store.user(args.ID)
	if err != nil {
		return nil, err
	}
	if target.ID != c.MustGetUser().ID {
		return nil, echo.NewHTTPError(http.StatusForbidden, "Error: Forbidden")
	}
	if err := s.store.deleteUser(args.ID); err != nil {
		return nil, err
	}
	s.log.WithField("user", args.ID).Info("account deleted")
	return nil, nil
}
