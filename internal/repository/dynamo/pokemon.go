// Package dynamo stores the catalog in a single DynamoDB table keyed by the
// numeric attribute "number".
package dynamo

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/ignite/pokedex/internal/domain"
	"github.com/ignite/pokedex/internal/service/pokemon"
)

var _ pokemon.Repository = (*PokemonRepo)(nil)

// API is the subset of *dynamodb.Client the repository needs.
type API interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Options configures the DynamoDB client built by New.
type Options struct {
	Table    string
	Region   string
	Endpoint string // e.g. http://localhost:8000 for DynamoDB Local
	// Static credentials; when empty the default AWS chain is used.
	AccessKeyID     string
	SecretAccessKey string
}

// item is the stored shape of a record.
type item struct {
	Number int      `dynamodbav:"number"`
	Name   string   `dynamodbav:"name"`
	Types  []string `dynamodbav:"types"`
}

// PokemonRepo implements pokemon.Repository on DynamoDB.
type PokemonRepo struct {
	client API
	table  string
}

// NewPokemonRepo wraps an existing client.
func NewPokemonRepo(client API, table string) *PokemonRepo {
	return &PokemonRepo{client: client, table: table}
}

// New loads AWS configuration and returns a repository for opts.Table.
func New(ctx context.Context, opts Options) (*PokemonRepo, error) {
	if opts.Table == "" {
		return nil, errors.New("dynamodb table name is required")
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(opts.Region)}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	})
	return NewPokemonRepo(client, opts.Table), nil
}

func numberKey(number domain.PokemonNumber) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"number": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", number.Int())},
	}
}

func (r *PokemonRepo) Insert(ctx context.Context, number domain.PokemonNumber, name domain.PokemonName, ts domain.PokemonTypes) (*domain.Pokemon, error) {
	av, err := attributevalue.MarshalMap(item{Number: number.Int(), Name: name.String(), Types: ts.Strings()})
	if err != nil {
		return nil, fmt.Errorf("marshaling item: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.table),
		Item:                     av,
		ConditionExpression:      aws.String("attribute_not_exists(#n)"),
		ExpressionAttributeNames: map[string]string{"#n": "number"},
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return nil, pokemon.ErrRecordExists
		}
		return nil, fmt.Errorf("putting item to DynamoDB: %w", err)
	}
	return &domain.Pokemon{Number: number, Name: name, Types: ts}, nil
}

func (r *PokemonRepo) FetchAll(ctx context.Context) ([]domain.Pokemon, error) {
	out := []domain.Pokemon{}
	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName:      aws.String(r.table),
		ConsistentRead: aws.Bool(true),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scanning DynamoDB: %w", err)
		}
		for _, raw := range page.Items {
			p, err := decode(raw)
			if err != nil {
				return nil, err
			}
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *PokemonRepo) FetchOne(ctx context.Context, number domain.PokemonNumber) (*domain.Pokemon, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.table),
		Key:            numberKey(number),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("getting item from DynamoDB: %w", err)
	}
	if len(result.Item) == 0 {
		return nil, pokemon.ErrRecordNotFound
	}
	p, err := decode(result.Item)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PokemonRepo) Delete(ctx context.Context, number domain.PokemonNumber) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                aws.String(r.table),
		Key:                      numberKey(number),
		ConditionExpression:      aws.String("attribute_exists(#n)"),
		ExpressionAttributeNames: map[string]string{"#n": "number"},
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return pokemon.ErrRecordNotFound
		}
		return fmt.Errorf("deleting item from DynamoDB: %w", err)
	}
	return nil
}

func decode(raw map[string]types.AttributeValue) (domain.Pokemon, error) {
	var it item
	if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
		return domain.Pokemon{}, fmt.Errorf("unmarshaling item: %w", err)
	}
	p, err := domain.NewPokemon(it.Number, it.Name, it.Types)
	if err != nil {
		return domain.Pokemon{}, fmt.Errorf("malformed item %d: %v", it.Number, err)
	}
	return p, nil
}
