package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/pribylovaa/sciarticles/internal/models"
	"github.com/pribylovaa/sciarticles/internal/search"
	"github.com/pribylovaa/sciarticles/internal/validate"
)

func (a *App) articles(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: articles create|list|get|update|delete", ErrUsage)
	}

	switch args[0] {
	case "create":
		return a.articleCreate(ctx, args[1:])
	case "list":
		return a.articleList(ctx, args[1:])
	case "get":
		return a.articleGet(ctx, args[1:])
	case "update":
		return a.articleUpdate(ctx, args[1:])
	case "delete":
		return a.articleDelete(ctx, args[1:])
	default:
		return fmt.Errorf("%w: unknown articles command %q", ErrUsage, args[0])
	}
}

// articleFlags — общие флаги create/update.
type articleFlags struct {
	fs       *flag.FlagSet
	title    *string
	authors  *string
	date     *string
	keywords *string
	abstract *string
	journal  *string
	doi      *string
	pages    *int64
}

func newArticleFlags(a *App, name string) *articleFlags {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)

	return &articleFlags{
		fs:       fs,
		title:    fs.String("title", "", "article title"),
		authors:  fs.String("authors", "", "comma-separated authors"),
		date:     fs.String("date", "", "publication date (YYYY-MM-DD)"),
		keywords: fs.String("keywords", "", "comma-separated keywords"),
		abstract: fs.String("abstract", "", "abstract"),
		journal:  fs.String("journal", "", "journal name"),
		doi:      fs.String("doi", "", "DOI"),
		pages:    fs.Int64("pages", 0, "page count (0 = not set)"),
	}
}

// toArticle валидирует ввод и собирает доменную модель.
func (f *articleFlags) toArticle() (models.Article, error) {
	authors := models.SplitList(*f.authors)
	keywords := models.SplitList(*f.keywords)

	checks := []error{
		validate.Title(*f.title),
		validate.Authors(authors),
		validate.PublicationDate(*f.date),
		validate.Keywords(keywords),
		validate.Abstract(*f.abstract),
		validate.Journal(*f.journal),
		validate.DOI(*f.doi),
	}
	for _, err := range checks {
		if err != nil {
			return models.Article{}, err
		}
	}

	art := models.Article{
		Title:           *f.title,
		Authors:         authors,
		PublicationDate: *f.date,
		Keywords:        keywords,
		Abstract:        *f.abstract,
		Journal:         *f.journal,
		DOI:             *f.doi,
	}
	if *f.pages > 0 {
		p := *f.pages
		art.Pages = &p
	}

	return art, nil
}

func (a *App) articleCreate(ctx context.Context, args []string) error {
	f := newArticleFlags(a, "articles create")
	if err := f.fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	userID, err := a.requireSession()
	if err != nil {
		return err
	}

	art, err := f.toArticle()
	if err != nil {
		return err
	}
	art.UserID = userID

	created, err := a.client.CreateArticle(ctx, art)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Article created, id %d\n", created.ID)
	return nil
}

func (a *App) articleList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("articles list", flag.ContinueOnError)
	fs.SetOutput(a.out)
	query := fs.String("search", "", "search substring")
	field := fs.String("filter", "", "search field: title, doi or keywords (empty = all)")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	userID, err := a.requireSession()
	if err != nil {
		return err
	}

	articles, err := a.client.ArticlesByUser(ctx, userID)
	if err != nil {
		return err
	}

	articles = search.Filter(articles, *query, search.Field(*field))
	if len(articles) == 0 {
		fmt.Fprintln(a.out, "No articles found")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tJOURNAL\tDATE\tDOI")
	for _, art := range articles {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", art.ID, art.Title, art.Journal, art.PublicationDate, art.DOI)
	}

	return tw.Flush()
}

func (a *App) articleGet(ctx context.Context, args []string) error {
	id, rest, err := parseID(args)
	if err != nil {
		return err
	}
	if len(rest) != 0 {
		return fmt.Errorf("%w: articles get <id>", ErrUsage)
	}

	art, err := a.client.ArticleByID(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Title:    %s\n", art.Title)
	fmt.Fprintf(a.out, "Authors:  %s\n", strings.Join(art.Authors, ", "))
	fmt.Fprintf(a.out, "Date:     %s\n", art.PublicationDate)
	fmt.Fprintf(a.out, "Journal:  %s\n", art.Journal)
	fmt.Fprintf(a.out, "DOI:      %s\n", art.DOI)
	fmt.Fprintf(a.out, "Keywords: %s\n", strings.Join(art.Keywords, ", "))
	if art.Pages != nil {
		fmt.Fprintf(a.out, "Pages:    %d\n", *art.Pages)
	}
	fmt.Fprintf(a.out, "Abstract: %s\n", art.Abstract)

	return nil
}

func (a *App) articleUpdate(ctx context.Context, args []string) error {
	id, rest, err := parseID(args)
	if err != nil {
		return err
	}

	f := newArticleFlags(a, "articles update")
	if err := f.fs.Parse(rest); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	if _, err := a.requireSession(); err != nil {
		return err
	}

	art, err := f.toArticle()
	if err != nil {
		return err
	}
	art.ID = id

	if err := a.client.UpdateArticle(ctx, art); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Article updated")
	return nil
}

func (a *App) articleDelete(ctx context.Context, args []string) error {
	id, rest, err := parseID(args)
	if err != nil {
		return err
	}
	if len(rest) != 0 {
		return fmt.Errorf("%w: articles delete <id>", ErrUsage)
	}

	if err := a.client.DeleteArticle(ctx, id); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Article deleted")
	return nil
}

// parseID снимает обязательный позиционный <id> с начала args.
func parseID(args []string) (int64, []string, error) {
	if len(args) == 0 {
		return 0, nil, fmt.Errorf("%w: article id required", ErrUsage)
	}

	var id int64
	if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil || id <= 0 {
		return 0, nil, fmt.Errorf("%w: invalid article id %q", ErrUsage, args[0])
	}

	return id, args[1:], nil
}
