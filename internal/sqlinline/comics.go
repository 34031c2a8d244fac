package sqlinline

const QInsertComicJob = `--sql d4d92407-1b7c-4f62-8cf9-e81668f20667
insert into comics (id, user_id, story, style, requested_panels, status, avatar_path)
values ($1, $2, $3, $4, $5, 'pending', $6);
`

// QClaimComicJob moves the oldest pending job to processing and returns it.
// SKIP LOCKED keeps concurrent workers from claiming the same job.
const QClaimComicJob = `--sql 569ef2e5-a01f-43fc-9215-d1d0ce451156
with next_job as (
    select id
    from comics
    where status = 'pending'
    order by created_at asc
    for update skip locked
    limit 1
),
claimed as (
    update comics
    set status = 'processing', updated_at = now()
    where id in (select id from next_job)
    returning id, user_id, story, style, requested_panels, avatar_path
)
select * from claimed;
`

const QUpdateComicTitle = `--sql 9c4ba835-a4f0-4445-b2bf-c34ec66fd7ca
update comics
set title = $2, updated_at = now()
where id = $1;
`

const QCompleteComicJob = `--sql 793980b0-a149-4e35-b0db-b234fa5a3d7a
update comics
set status = 'complete',
    image_paths = $2,
    panel_count = $3,
    updated_at = now()
where id = $1;
`

const QFailComicJob = `--sql 562fc07b-8c20-4219-9be2-6e8ae8fc4a05
update comics
set status = 'error',
    error_type = $2,
    error_message = $3,
    updated_at = now()
where id = $1;
`

const QGetComicJob = `--sql 5478649e-83dd-4d1f-b2f6-0ef59488f929
select id, user_id, story, style, requested_panels, status,
       coalesce(title, ''), coalesce(image_paths, '{}'), coalesce(panel_count, 0),
       coalesce(avatar_path, ''), coalesce(error_type, ''), coalesce(error_message, ''),
       created_at, updated_at
from comics
where id = $1;
`

const QGetComicJobForUser = `--sql 2126f6c3-f64d-46e3-bad9-5e1ebe27272c
select id, user_id, story, style, requested_panels, status,
       coalesce(title, ''), coalesce(image_paths, '{}'), coalesce(panel_count, 0),
       coalesce(avatar_path, ''), coalesce(error_type, ''), coalesce(error_message, ''),
       created_at, updated_at
from comics
where id = $1 and user_id = $2;
`
