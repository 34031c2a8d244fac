package sqlinline

const QInsertAvatarJob = `--sql 0721ea6a-545a-46d5-bb8c-55af3a1dd70d
insert into avatar_jobs (id, user_id, style_name, prompt, photo_path, status)
values ($1, $2, $3, $4, $5, 'processing');
`

const QClaimAvatarJob = `--sql 43f1c9a3-8e09-4d3e-b209-58d6e3cc4b74
with next_job as (
    select id
    from avatar_jobs
    where status = 'processing' and claimed_at is null
    order by created_at asc
    for update skip locked
    limit 1
),
claimed as (
    update avatar_jobs
    set claimed_at = now(), updated_at = now()
    where id in (select id from next_job)
    returning id, user_id, style_name, prompt, photo_path
)
select * from claimed;
`

const QCompleteAvatarJob = `--sql b17b3c0b-c510-4fd6-a588-46300b14d7b7
update avatar_jobs
set status = 'complete',
    avatar_path = $2,
    updated_at = now()
where id = $1;
`

const QFailAvatarJob = `--sql fdb7674b-0727-4d84-bfef-1b4b17697e58
update avatar_jobs
set status = 'error',
    error_type = $2,
    error_message = $3,
    updated_at = now()
where id = $1;
`

const QGetAvatarJobForUser = `--sql 7c7e7fb9-b1cd-44ec-bffd-229cbf4e6d07
select id, user_id, style_name, prompt, photo_path, status,
       coalesce(avatar_path, ''), coalesce(error_type, ''), coalesce(error_message, ''),
       created_at, updated_at
from avatar_jobs
where id = $1 and user_id = $2;
`

// Finalize links a finished avatar to the user: one avatar row, an unlocked
// style and the profile's display avatar.
const QInsertAvatar = `--sql e729e7d7-076b-460b-968d-a26b535b85ad
insert into avatars (id, user_id, style, avatar_path, original_photo_path)
values (gen_random_uuid(), $1, $2, $3, 'server_generated');
`

const QUpsertUnlockedStyle = `--sql ca60cb2a-fcde-47d0-ac35-7529ef4bc0b3
insert into unlocked_styles (user_id, style)
values ($1, $2)
on conflict (user_id, style) do nothing;
`

const QUpdateProfileAvatar = `--sql 7a2d993c-a9b5-40e6-a3ca-30d1e94fbf2b
update profiles
set last_avatar_created_at = now(),
    display_avatar_path = $2,
    avatar_style = $3
where id = $1;
`

const QGetAvatarForStyle = `--sql 3f7de6cd-40b1-4f06-9a93-5b1e2a7c6d18
select avatar_path
from avatars
where user_id = $1 and style = $2
order by created_at desc
limit 1;
`
