package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/dalemusser/storyhub/internal/client"
	"github.com/dalemusser/storyhub/internal/client/catalog"
	"github.com/dalemusser/storyhub/internal/domain/models"
	"github.com/gabriel-vasile/mimetype"
)

func (a *App) health(ctx context.Context, args []string) error {
	fs := a.flags("health")
	if err := fs.Parse(args); err != nil {
		return err
	}
	h, err := a.session.API().Health(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "status: %s\ndatabase: %s\n", h.Status, h.Database)
	return nil
}

func (a *App) register(ctx context.Context, args []string) error {
	var req client.RegisterRequest
	fs := a.flags("register")
	fs.StringVar(&req.Name, "name", "", "full name")
	fs.StringVar(&req.Email, "email", "", "email address")
	fs.StringVar(&req.Phone, "phone", "", "phone number")
	fs.StringVar(&req.Role, "role", "", "director or producer")
	fs.StringVar(&req.Password, "password", "", "password (prompted when omitted)")
	fs.StringVar(&req.Bio, "bio", "", "short bio")
	if err := fs.Parse(args); err != nil {
		return err
	}

	for _, f := range []struct {
		v     *string
		label string
	}{
		{&req.Name, "Name"},
		{&req.Email, "Email"},
		{&req.Phone, "Phone"},
		{&req.Role, "Role (director/producer)"},
	} {
		if err := a.promptIfEmpty(f.v, f.label); err != nil {
			return err
		}
	}
	if req.Password == "" {
		pw, err := a.password("Password")
		if err != nil {
			return err
		}
		req.Password = pw
	}

	u, err := a.session.Register(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Registered and signed in as %s (%s)\n", u.Email, u.Role)
	return nil
}

func (a *App) login(ctx context.Context, args []string) error {
	var email, password string
	fs := a.flags("login")
	fs.StringVar(&email, "email", "", "email address")
	fs.StringVar(&password, "password", "", "password (prompted when omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.promptIfEmpty(&email, "Email"); err != nil {
		return err
	}
	if password == "" {
		pw, err := a.password("Password")
		if err != nil {
			return err
		}
		password = pw
	}

	u, err := a.session.Login(ctx, email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Signed in as %s (%s)\n", u.Email, u.Role)
	return nil
}

func (a *App) logout(_ context.Context, args []string) error {
	if err := a.flags("logout").Parse(args); err != nil {
		return err
	}
	if err := a.session.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

func (a *App) whoami(_ context.Context, args []string) error {
	if err := a.flags("whoami").Parse(args); err != nil {
		return err
	}
	u := a.session.User()
	if u == nil {
		return client.ErrNotAuthenticated
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "id:\t%s\n", u.ID.Hex())
	fmt.Fprintf(tw, "name:\t%s\n", u.Name)
	fmt.Fprintf(tw, "email:\t%s\n", u.Email)
	fmt.Fprintf(tw, "phone:\t%s\n", u.Phone)
	fmt.Fprintf(tw, "role:\t%s\n", u.Role)
	if u.Bio != "" {
		fmt.Fprintf(tw, "bio:\t%s\n", u.Bio)
	}
	return tw.Flush()
}

func (a *App) profile(ctx context.Context, args []string) error {
	var name, phone, bio string
	fs := a.flags("profile")
	fs.StringVar(&name, "name", "", "new name")
	fs.StringVar(&phone, "phone", "", "new phone number")
	fs.StringVar(&bio, "bio", "", "new bio")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if name == "" && phone == "" && bio == "" {
		return usagef("nothing to update: pass --name, --phone or --bio")
	}
	u, err := a.session.UpdateProfile(ctx, name, phone, bio)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Profile updated for %s\n", u.Email)
	return nil
}

func (a *App) stories(ctx context.Context, args []string) error {
	var f catalog.Filter
	var mine, asJSON bool
	fs := a.flags("stories")
	fs.StringVarP(&f.Search, "query", "q", "", "search title, description and director")
	fs.StringVar(&f.MediaType, "type", "", "video, audio or pdf")
	fs.StringVar(&f.Genre, "genre", "", "genre (exact, any case)")
	fs.StringVar(&f.DirectorID, "director", "", "director id")
	fs.BoolVar(&mine, "mine", false, "only stories of the signed-in director")
	fs.BoolVar(&asJSON, "json", false, "print JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if f.MediaType != "" && f.MediaType != catalog.MediaTypeAll && !models.IsValidMediaType(f.MediaType) {
		return usagef("--type must be one of %s", strings.Join(models.MediaTypes, ", "))
	}
	if mine {
		u := a.session.User()
		if u == nil {
			return client.ErrNotAuthenticated
		}
		f = catalog.ForUser(u, f)
	}

	all, err := a.session.API().ListStories(ctx)
	if err != nil {
		return err
	}
	list := catalog.Apply(all, f)

	if asJSON {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No stories found matching your criteria.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tTYPE\tGENRES\tDIRECTOR\tCONTACT\tCREATED")
	for _, s := range list {
		director, contact := "-", "-"
		if s.Director != nil {
			director = s.Director.Name
			contact = strings.Trim(s.Director.Email+" "+s.Director.Phone, " ")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			s.ID.Hex(), s.Title, s.MediaType, strings.Join(s.Genres, ","),
			director, contact, s.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func (a *App) upload(ctx context.Context, args []string) error {
	var title, description, mediaType, genres string
	fs := a.flags("upload")
	fs.StringVar(&title, "title", "", "story title")
	fs.StringVar(&description, "description", "", "story description")
	fs.StringVar(&mediaType, "type", "", "video, audio or pdf (guessed from the file when omitted)")
	fs.StringVar(&genres, "genres", "", "comma-separated genres: "+strings.Join(catalog.Genres(), ", "))
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usagef("expected exactly one media file")
	}
	path := fs.Arg(0)

	u := a.session.User()
	if u == nil {
		return client.ErrNotAuthenticated
	}
	if !u.IsDirector() {
		return usagef("only directors can upload stories")
	}

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	contentType := baseType(mt.String())
	if mediaType == "" {
		mediaType = mediaTypeFor(contentType)
		if mediaType == "" {
			return usagef("cannot tell the media type of %s (%s); pass --type", filepath.Base(path), contentType)
		}
	}

	tags := splitGenres(genres)
	for _, g := range tags {
		if !catalog.IsKnownGenre(g) {
			fmt.Fprintf(a.errOut, "warning: %q is not a listed genre\n", g)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	st, err := a.session.API().UploadStory(ctx, client.NewStory{
		Title:       title,
		Description: description,
		MediaType:   mediaType,
		Genres:      tags,
		DirectorID:  u.ID.Hex(),
		FileName:    filepath.Base(path),
		ContentType: contentType,
		Media:       f,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Uploaded %q (%s) as %s\n", st.Title, st.MediaType, st.ID.Hex())
	fmt.Fprintf(a.out, "Media: %s\n", a.session.API().MediaURL(st.MediaURL))
	return nil
}

func (a *App) deleteStory(ctx context.Context, args []string) error {
	fs := a.flags("delete")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usagef("expected exactly one story id")
	}
	if err := a.session.API().DeleteStory(ctx, fs.Arg(0)); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Story deleted successfully")
	return nil
}

// mediaTypeFor maps a content type onto the media type that allows it.
func mediaTypeFor(contentType string) string {
	for _, t := range models.MediaTypes {
		if models.AllowsMIME(t, contentType) {
			return t
		}
	}
	return ""
}

func baseType(ct string) string {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.TrimSpace(strings.ToLower(ct))
}

func splitGenres(s string) []string {
	out := []string{}
	for _, g := range strings.Split(s, ",") {
		if g = strings.TrimSpace(g); g != "" {
			out = append(out, g)
		}
	}
	return out
}
